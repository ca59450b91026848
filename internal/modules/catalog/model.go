// README: Campus location reference data and its categories.
package catalog

import (
	"errors"

	"campusnav/internal/types"
)

type Category string

const (
	CategoryAcademic       Category = "academic"
	CategoryResidence      Category = "residence"
	CategoryAdministrative Category = "administrative"
	CategorySports         Category = "sports"
	CategoryDining         Category = "dining"
	CategoryHealth         Category = "health"
	CategoryCampus         Category = "campus"
	CategoryOther          Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryAcademic,
	CategoryResidence,
	CategoryAdministrative,
	CategorySports,
	CategoryDining,
	CategoryHealth,
	CategoryCampus,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

var (
	ErrNotFound    = errors.New("location not found")
	ErrDuplicateID = errors.New("duplicate location id")
)

// Location is an immutable catalog entry. OperatingHours and Contact are
// optional; use the accessors rather than inspecting the pointers directly.
type Location struct {
	ID             types.ID    `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description" yaml:"description"`
	Category       Category    `json:"category" yaml:"category"`
	Coordinates    types.Point `json:"coordinates" yaml:"coordinates"`
	OperatingHours *string     `json:"operatingHours,omitempty" yaml:"operatingHours,omitempty"`
	Contact        *Contact    `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// Contact holds optional phone and email details.
type Contact struct {
	Phone *string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email *string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Hours returns the operating hours and whether they are known.
func (l Location) Hours() (string, bool) {
	if l.OperatingHours == nil {
		return "", false
	}
	return *l.OperatingHours, true
}

// Phone returns the contact phone number and whether one is listed.
func (l Location) Phone() (string, bool) {
	if l.Contact == nil || l.Contact.Phone == nil {
		return "", false
	}
	return *l.Contact.Phone, true
}

// Email returns the contact email address and whether one is listed.
func (l Location) Email() (string, bool) {
	if l.Contact == nil || l.Contact.Email == nil {
		return "", false
	}
	return *l.Contact.Email, true
}
