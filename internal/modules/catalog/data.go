package catalog

import (
	_ "embed"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Default loads the embedded campus table.
func Default() (*Catalog, error) {
	return Parse(locationsYAML)
}

// Parse decodes a YAML location table and builds a validated catalog.
func Parse(data []byte) (*Catalog, error) {
	var locs []Location
	if err := yaml.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("parse location table: %w", err)
	}
	return New(locs)
}

func categoryRules() []any {
	out := make([]any, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

func validateLocation(loc Location) error {
	if err := validation.ValidateStruct(&loc,
		validation.Field(&loc.ID, validation.Required),
		validation.Field(&loc.Name, validation.Required),
		validation.Field(&loc.Category, validation.Required, validation.In(categoryRules()...)),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&loc.Coordinates,
		validation.Field(&loc.Coordinates.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&loc.Coordinates.Lng, validation.Min(-180.0), validation.Max(180.0)),
	); err != nil {
		return fmt.Errorf("coordinates: %w", err)
	}
	if loc.Contact != nil && loc.Contact.Email != nil {
		if err := validation.Validate(*loc.Contact.Email, validation.Required, validation.Match(emailPattern)); err != nil {
			return fmt.Errorf("contact email: %w", err)
		}
	}
	return nil
}
