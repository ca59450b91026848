// README: Catalog is the immutable, ordered location table plus search and proximity queries.
package catalog

import (
	"fmt"
	"iter"
	"strings"

	"campusnav/internal/geo"
	"campusnav/internal/types"
)

// DefaultNearbyRadiusKm is the radius used when callers do not supply one.
const DefaultNearbyRadiusKm = 0.5

// Catalog holds locations in table order. It is safe for concurrent use
// because nothing mutates it after New returns.
type Catalog struct {
	locations []Location
	byID      map[types.ID]int
}

// New validates locs and builds a catalog over a private copy of them.
func New(locs []Location) (*Catalog, error) {
	c := &Catalog{
		locations: make([]Location, len(locs)),
		byID:      make(map[types.ID]int, len(locs)),
	}
	copy(c.locations, locs)
	for i, loc := range c.locations {
		if err := validateLocation(loc); err != nil {
			return nil, fmt.Errorf("location %d (%q): %w", i, loc.ID, err)
		}
		if _, dup := c.byID[loc.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, loc.ID)
		}
		c.byID[loc.ID] = i
	}
	return c, nil
}

// Len returns the number of locations.
func (c *Catalog) Len() int {
	return len(c.locations)
}

// All returns every location in catalog order. The slice is a copy.
func (c *Catalog) All() []Location {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out
}

func (c *Catalog) Get(id types.ID) (Location, error) {
	i, ok := c.byID[id]
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.locations[i], nil
}

func (c *Catalog) ByCategory(cat Category) []Location {
	var out []Location
	for _, loc := range c.locations {
		if loc.Category == cat {
			out = append(out, loc)
		}
	}
	return out
}

// Search returns locations whose name, description or category contains the
// trimmed, lower-cased query. A blank query matches nothing.
func (c *Catalog) Search(query string) []Location {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Location{}
	}
	out := []Location{}
	for _, loc := range c.locations {
		if matches(loc, q) {
			out = append(out, loc)
		}
	}
	return out
}

func matches(loc Location, q string) bool {
	return strings.Contains(strings.ToLower(loc.Name), q) ||
		strings.Contains(strings.ToLower(loc.Description), q) ||
		strings.Contains(strings.ToLower(string(loc.Category)), q)
}

// Nearby yields, in catalog order, every location within maxKm of the given
// point. A NaN radius matches nothing. The sequence can be ranged over more
// than once.
func (c *Catalog) Nearby(lat, lng, maxKm float64) iter.Seq[Location] {
	return func(yield func(Location) bool) {
		for _, loc := range c.locations {
			d := geo.DistanceKm(lat, lng, loc.Coordinates.Lat, loc.Coordinates.Lng)
			if !(d <= maxKm) {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}
