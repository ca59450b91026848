package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusnav/internal/config"
	"campusnav/internal/maps"
	"campusnav/internal/types"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Store.Backend = config.StoreMemory
	cfg.Navigation.NearbyRadiusKm = 0.5
	cfg.Navigation.DeviceFixMaxAge = time.Minute
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_MinimalConfig(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Directions.Configured() {
		t.Error("directions should be unconfigured without an API key")
	}
	if a.Sources.Devices != nil {
		t.Error("device positions should be disabled without Firebase")
	}
	_, err = a.Directions.GetDirections(context.Background(), types.Point{Lat: 5.65, Lng: -0.18}, types.Point{Lat: 5.66, Lng: -0.19}, maps.ModeWalking)
	if !errors.Is(err, maps.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locations/balme-library", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestNew_UnknownStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "cassandra"
	if _, err := New(context.Background(), cfg, quietLogger()); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)
	cfg.HTTP.Addr = ln.Addr().String()
	ln.Close()

	a, err := New(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	url := "http://" + cfg.HTTP.Addr + "/health"
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if n := a.Notifications.UnreadCount(context.Background()); n != 1 {
		t.Errorf("expected welcome notification, unread = %d", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
