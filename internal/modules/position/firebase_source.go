package position

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/db"

	"campusnav/internal/types"
)

// deviceNode is the RTDB node the mobile app writes its last fix to.
const deviceNode = "device_locations"

// DeviceEntry mirrors /device_locations/{deviceID}.
type DeviceEntry struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	Heading    *float64 `json:"heading,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	Permission string   `json:"permission"`
	Timestamp  int64    `json:"timestamp"`
}

// DeviceReader loads a device entry; ok is false when none exists.
type DeviceReader interface {
	ReadDevice(ctx context.Context, deviceID string) (entry DeviceEntry, ok bool, err error)
}

// RTDBReader reads device entries from Firebase Realtime Database.
type RTDBReader struct {
	client *db.Client
}

func NewRTDBReader(client *db.Client) *RTDBReader {
	return &RTDBReader{client: client}
}

func (r *RTDBReader) ReadDevice(ctx context.Context, deviceID string) (DeviceEntry, bool, error) {
	var entry *DeviceEntry
	if err := r.client.NewRef(deviceNode).Child(deviceID).Get(ctx, &entry); err != nil {
		return DeviceEntry{}, false, fmt.Errorf("reading device %s: %w", deviceID, err)
	}
	if entry == nil {
		return DeviceEntry{}, false, nil
	}
	return *entry, true, nil
}

// DeviceSource is the last fix a device published. Fixes older than MaxAge
// are rejected; zero MaxAge accepts any age.
type DeviceSource struct {
	Reader   DeviceReader
	DeviceID string
	MaxAge   time.Duration
	Now      func() time.Time
}

func (s DeviceSource) CurrentPosition(ctx context.Context) (Fix, error) {
	entry, ok, err := s.Reader.ReadDevice(ctx, s.DeviceID)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return Fix{}, fmt.Errorf("%w: no fix for device %s", ErrUnavailable, s.DeviceID)
	}
	if entry.Permission != "granted" {
		return Fix{}, ErrPermissionDenied
	}

	recorded := time.UnixMilli(entry.Timestamp)
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if s.MaxAge > 0 && now().Sub(recorded) > s.MaxAge {
		return Fix{}, fmt.Errorf("%w: fix for device %s is stale", ErrUnavailable, s.DeviceID)
	}

	p := types.Point{Lat: entry.Lat, Lng: entry.Lng}
	if !p.Valid() {
		return Fix{}, fmt.Errorf("%w: coordinates out of range", ErrUnavailable)
	}
	return Fix{
		Point:      p,
		Accuracy:   entry.Accuracy,
		Heading:    entry.Heading,
		Speed:      entry.Speed,
		RecordedAt: recorded,
	}, nil
}
