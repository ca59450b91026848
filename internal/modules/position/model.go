// README: Device position fixes and the campus-center fallback.
package position

import (
	"errors"
	"time"

	"campusnav/internal/types"
)

// CampusCenter is substituted whenever a device position cannot be read.
var CampusCenter = types.Point{Lat: 5.6502, Lng: -0.1864}

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("device position unavailable")
)

// Fix is a sampled device position. Fallback is set when CampusCenter was
// used instead of a real reading.
type Fix struct {
	Point      types.Point `json:"coordinates"`
	Accuracy   *float64    `json:"accuracy,omitempty"`
	Heading    *float64    `json:"heading,omitempty"`
	Speed      *float64    `json:"speed,omitempty"`
	RecordedAt time.Time   `json:"recordedAt"`
	Fallback   bool        `json:"fallback"`
}
