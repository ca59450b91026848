package position

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"campusnav/internal/types"
)

type fakeReader struct {
	entry DeviceEntry
	ok    bool
	err   error
}

func (f fakeReader) ReadDevice(context.Context, string) (DeviceEntry, bool, error) {
	return f.entry, f.ok, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeviceSource(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	acc := 8.5
	fresh := DeviceEntry{Lat: 5.651, Lng: -0.187, Accuracy: &acc, Permission: "granted", Timestamp: now.Add(-time.Minute).UnixMilli()}

	tests := []struct {
		name    string
		reader  fakeReader
		wantErr error
	}{
		{"granted", fakeReader{entry: fresh, ok: true}, nil},
		{"denied", fakeReader{entry: DeviceEntry{Lat: 5.65, Lng: -0.18, Permission: "denied"}, ok: true}, ErrPermissionDenied},
		{"missing", fakeReader{}, ErrUnavailable},
		{"read error", fakeReader{err: errors.New("rtdb down")}, ErrUnavailable},
		{"stale", fakeReader{entry: DeviceEntry{Lat: 5.65, Lng: -0.18, Permission: "granted", Timestamp: now.Add(-time.Hour).UnixMilli()}, ok: true}, ErrUnavailable},
		{"out of range", fakeReader{entry: DeviceEntry{Lat: 95, Lng: 0, Permission: "granted", Timestamp: now.UnixMilli()}, ok: true}, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := DeviceSource{Reader: tt.reader, DeviceID: "dev-1", MaxAge: 10 * time.Minute, Now: func() time.Time { return now }}
			fix, err := src.CurrentPosition(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fix.Point != (types.Point{Lat: 5.651, Lng: -0.187}) || fix.Fallback {
				t.Errorf("fix = %+v", fix)
			}
			if fix.Accuracy == nil || *fix.Accuracy != 8.5 {
				t.Errorf("accuracy = %v", fix.Accuracy)
			}
		})
	}
}

func TestResolveFallsBackToCampusCenter(t *testing.T) {
	ctx := context.Background()
	denied := DeviceSource{Reader: fakeReader{entry: DeviceEntry{Permission: "denied"}, ok: true}, DeviceID: "dev-1"}

	for name, src := range map[string]Source{
		"denied":     denied,
		"nil source": nil,
		"bad static": Static{Lat: 200, Lng: 0},
	} {
		fix := Resolve(ctx, src, quietLogger())
		if !fix.Fallback || fix.Point != CampusCenter {
			t.Errorf("%s: fix = %+v, want campus center fallback", name, fix)
		}
	}

	fix := Resolve(ctx, Static{Lat: 5.66, Lng: -0.19}, quietLogger())
	if fix.Fallback || fix.Point.Lat != 5.66 {
		t.Errorf("static fix = %+v", fix)
	}
}

func TestSourcesFrom(t *testing.T) {
	lat, lng := 5.66, -0.19
	srcs := Sources{Devices: fakeReader{}, MaxAge: time.Minute}

	if _, ok := srcs.From(&lat, &lng, "dev-1").(Static); !ok {
		t.Error("coordinates should take precedence")
	}
	if ds, ok := srcs.From(nil, nil, "dev-1").(DeviceSource); !ok || ds.DeviceID != "dev-1" || ds.MaxAge != time.Minute {
		t.Errorf("device source = %+v", ds)
	}
	if src := srcs.From(&lat, nil, ""); src != nil {
		t.Errorf("partial coordinates should not build a source, got %T", src)
	}
	if src := (Sources{}).From(nil, nil, "dev-1"); src != nil {
		t.Errorf("no device reader should yield nil, got %T", src)
	}
}
