package position

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusnav/internal/types"
)

// Source reads the current device position.
type Source interface {
	CurrentPosition(ctx context.Context) (Fix, error)
}

// Static is a position the client already sampled and sent with its request.
type Static types.Point

func (s Static) CurrentPosition(context.Context) (Fix, error) {
	p := types.Point(s)
	if !p.Valid() {
		return Fix{}, fmt.Errorf("%w: coordinates out of range", ErrUnavailable)
	}
	return Fix{Point: p, RecordedAt: time.Now()}, nil
}

// Resolve reads src and falls back to CampusCenter on any failure. A nil
// source resolves straight to the fallback.
func Resolve(ctx context.Context, src Source, logger *slog.Logger) Fix {
	if logger == nil {
		logger = slog.Default()
	}
	if src == nil {
		return fallback()
	}
	fix, err := src.CurrentPosition(ctx)
	if err != nil {
		logger.Warn("using campus center as current position", "err", err)
		return fallback()
	}
	return fix
}

func fallback() Fix {
	return Fix{Point: CampusCenter, RecordedAt: time.Now(), Fallback: true}
}

// Sources picks a Source for a request. Client-supplied coordinates win over
// a device id; with neither, the request resolves to the fallback.
type Sources struct {
	Devices DeviceReader
	MaxAge  time.Duration
}

func (s Sources) From(lat, lng *float64, deviceID string) Source {
	if lat != nil && lng != nil {
		return Static{Lat: *lat, Lng: *lng}
	}
	if deviceID != "" && s.Devices != nil {
		return DeviceSource{Reader: s.Devices, DeviceID: deviceID, MaxAge: s.MaxAge}
	}
	return nil
}
