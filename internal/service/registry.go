package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusnav/internal/maps"
	"campusnav/internal/modules/position"
	"campusnav/internal/types"
)

var ErrSessionNotFound = errors.New("navigation session not found")

const (
	DefaultSessionIdleTTL = 30 * time.Minute
	DefaultMaxSessions    = 1000
)

// SessionRegistry keeps navigation sessions in memory for the HTTP API.
// Sessions untouched for longer than the idle TTL are dropped lazily, and
// once the cap is reached the least recently used session makes room for a
// new one.
type SessionRegistry struct {
	nav         *Navigator
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[types.ID]*registryEntry
}

type registryEntry struct {
	session  *Session
	lastUsed time.Time
}

type RegistryOption func(*SessionRegistry)

// WithIdleTTL sets how long an unused session is kept. Non-positive values
// keep the default.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *SessionRegistry) {
		if d > 0 {
			r.idleTTL = d
		}
	}
}

// WithMaxSessions caps the number of live sessions. Non-positive values keep
// the default.
func WithMaxSessions(n int) RegistryOption {
	return func(r *SessionRegistry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *SessionRegistry) { r.now = now }
}

func NewSessionRegistry(nav *Navigator, opts ...RegistryOption) *SessionRegistry {
	r := &SessionRegistry{
		nav:         nav,
		idleTTL:     DefaultSessionIdleTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[types.ID]*registryEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a session and registers it. As with StartSession, the session
// is registered and returned even if the first route request failed.
func (r *SessionRegistry) Create(ctx context.Context, destinationID types.ID, mode maps.Mode, src position.Source) (*Session, error) {
	s, err := r.nav.StartSession(ctx, types.ID(uuid.NewString()), destinationID, mode, src)
	if s == nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.evictIdleLocked(now)
	for len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked()
	}
	r.sessions[s.ID] = &registryEntry{session: s, lastUsed: now}
	return s, err
}

// Get returns a live session and marks it as used.
func (r *SessionRegistry) Get(id types.ID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := r.now()
	if r.expired(e, now) {
		delete(r.sessions, id)
		r.nav.logger.Debug("navigation session expired", "session", id)
		return nil, ErrSessionNotFound
	}
	e.lastUsed = now
	return e.session, nil
}

func (r *SessionRegistry) Delete(id types.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len counts live sessions, dropping expired ones first.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictIdleLocked(r.now())
	return len(r.sessions)
}

func (r *SessionRegistry) expired(e *registryEntry, now time.Time) bool {
	return now.Sub(e.lastUsed) > r.idleTTL
}

func (r *SessionRegistry) evictIdleLocked(now time.Time) {
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
		}
	}
}

func (r *SessionRegistry) evictOldestLocked() {
	var oldestID types.ID
	var oldest time.Time
	first := true
	for id, e := range r.sessions {
		if first || e.lastUsed.Before(oldest) {
			oldestID, oldest, first = id, e.lastUsed, false
		}
	}
	if !first {
		delete(r.sessions, oldestID)
		r.nav.logger.Info("navigation session evicted at capacity", "session", oldestID)
	}
}
