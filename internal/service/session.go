package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"campusnav/internal/maps"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/modules/position"
	"campusnav/internal/types"
)

// ErrSuperseded is returned by a refresh whose result arrived after a newer
// refresh had already started. Its route was discarded.
var ErrSuperseded = errors.New("route request superseded by a newer one")

// Session tracks one navigation: a destination, a travel mode and the latest
// route. Every change re-requests directions; each request carries a
// generation number and only the newest generation may update the session.
type Session struct {
	ID types.ID

	nav *Navigator
	src position.Source

	mu          sync.Mutex
	destination catalog.Location
	mode        maps.Mode
	origin      position.Fix
	route       *maps.Route
	lastErr     error
	generation  uint64
	updatedAt   time.Time
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ID          types.ID         `json:"id"`
	Destination catalog.Location `json:"destination"`
	Mode        maps.Mode        `json:"mode"`
	Origin      position.Fix     `json:"origin"`
	Route       *maps.Route      `json:"route"`
	Error       string           `json:"error,omitempty"`
	Generation  uint64           `json:"generation"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// StartSession validates the destination and mode, then fetches the first
// route. A directions failure still returns the session, with no route, along
// with the error.
func (n *Navigator) StartSession(ctx context.Context, id types.ID, destinationID types.ID, mode maps.Mode, src position.Source) (*Session, error) {
	dest, err := n.destination(destinationID)
	if err != nil {
		return nil, err
	}
	mode, err = maps.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	s := &Session{ID: id, nav: n, src: src, destination: dest, mode: mode}
	return s, s.Refresh(ctx)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:          s.ID,
		Destination: s.destination,
		Mode:        s.mode,
		Origin:      s.origin,
		Route:       s.route,
		Generation:  s.generation,
		UpdatedAt:   s.updatedAt,
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}

// SetMode switches the travel mode and re-requests directions.
func (s *Session) SetMode(ctx context.Context, mode maps.Mode) error {
	mode, err := maps.ParseMode(string(mode))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// ToggleMode advances walking, driving, bicycling, transit and back to
// walking, then re-requests directions.
func (s *Session) ToggleMode(ctx context.Context) (maps.Mode, error) {
	s.mu.Lock()
	s.mode = s.mode.Next()
	mode := s.mode
	s.mu.Unlock()
	return mode, s.Refresh(ctx)
}

// SetDestination points the session at another catalog location and
// re-requests directions.
func (s *Session) SetDestination(ctx context.Context, destinationID types.ID) error {
	dest, err := s.nav.destination(destinationID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.destination = dest
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh samples the position and fetches a route for the current
// destination and mode. On failure the previous route stays in place.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	dest := s.destination
	mode := s.mode
	s.mu.Unlock()

	origin := s.nav.CurrentPosition(ctx, s.src)
	route, err := s.nav.directions.GetDirections(ctx, origin.Point, dest.Coordinates, mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.nav.logger.Debug("discarding stale route", "session", s.ID, "generation", gen, "current", s.generation)
		return ErrSuperseded
	}
	s.origin = origin
	s.updatedAt = time.Now()
	if err != nil {
		s.lastErr = err
		s.nav.logger.Warn("route refresh failed; keeping previous route", "session", s.ID, "err", err)
		return err
	}
	s.route = route
	s.lastErr = nil
	return nil
}
