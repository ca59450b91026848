// README: Route and travel mode types returned by the directions client.
package maps

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"campusnav/internal/types"
)

var (
	ErrNoRoute       = errors.New("no route between the requested points")
	ErrNotConfigured = errors.New("directions service not configured")
	ErrUpstream      = errors.New("directions service unavailable")
	ErrInvalidMode   = errors.New("invalid travel mode")
)

type Mode string

const (
	ModeWalking   Mode = "walking"
	ModeDriving   Mode = "driving"
	ModeBicycling Mode = "bicycling"
	ModeTransit   Mode = "transit"
)

var modeCycle = []Mode{ModeWalking, ModeDriving, ModeBicycling, ModeTransit}

// ParseMode accepts a mode name case-insensitively. An empty string selects
// walking.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeWalking, nil
	}
	for _, m := range modeCycle {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Next returns the mode that follows m in the toggle order
// walking, driving, bicycling, transit.
func (m Mode) Next() Mode {
	for i, k := range modeCycle {
		if k == m {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return ModeWalking
}

type Step struct {
	Instruction    string        `json:"instruction"`
	DistanceText   string        `json:"distance"`
	DurationText   string        `json:"duration"`
	DistanceMeters int           `json:"distanceMeters"`
	Duration       time.Duration `json:"-"`
	Start          types.Point   `json:"start"`
	End            types.Point   `json:"end"`
}

// Route is a decoded directions result. DurationText is traffic-adjusted when
// HasTraffic is set. The text fields are rendered locally by FormatDuration
// from the numeric values, so they can differ from the wording the directions
// API would use (hours are never rolled up into days, for example).
type Route struct {
	Mode           Mode          `json:"mode"`
	Points         []types.Point `json:"points"`
	Steps          []Step        `json:"steps"`
	DistanceText   string        `json:"distance"`
	DurationText   string        `json:"duration"`
	DistanceMeters int           `json:"distanceMeters"`
	Duration       time.Duration `json:"-"`
	DurationSecs   int64         `json:"durationSeconds"`
	HasTraffic     bool          `json:"hasTraffic"`
	MapsURL        string        `json:"mapsUrl"`
}

// MapsURL builds a Google Maps web link that opens the same trip.
func MapsURL(from, to types.Point, mode Mode) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", from.String())
	q.Set("destination", to.String())
	q.Set("travelmode", string(mode))
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// FormatDuration renders d in the directions API style, for example
// "1 min", "12 mins" or "1 hour 5 mins". A non-positive d is "0 mins"; any
// positive d under a minute rounds up to "1 min".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 mins"
	}
	mins := int((d + 30*time.Second) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	h, m := mins/60, mins%60
	var parts []string
	switch {
	case h == 1:
		parts = append(parts, "1 hour")
	case h > 1:
		parts = append(parts, fmt.Sprintf("%d hours", h))
	}
	switch {
	case m == 1:
		parts = append(parts, "1 min")
	case m > 1:
		parts = append(parts, fmt.Sprintf("%d mins", m))
	}
	return strings.Join(parts, " ")
}
