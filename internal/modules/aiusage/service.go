// README: Monthly allowance for AI query interpretation, persisted in the key-value store.
package aiusage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"campusnav/internal/ai"
	"campusnav/internal/kv"
)

var storageKey = kv.Key("ai_usage")

// Service orchestrates AI token-usage logic.
type Service struct {
	store   kv.Store
	monthly int
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewService creates a Service granting monthly tokens per calendar month.
// A non-positive monthly uses DefaultTokens.
func NewService(store kv.Store, monthly int, logger *slog.Logger) *Service {
	if monthly <= 0 {
		monthly = DefaultTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, monthly: monthly, logger: logger.With("component", "aiusage"), now: time.Now}
}

// UseToken deducts one token from the current month's allowance. The counter
// resets lazily on the first use in a new month. Returns ErrInsufficientTokens
// when the allowance is exhausted.
func (s *Service) UseToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	month := s.now().Format("2006-01")
	var u usage
	found, err := kv.GetJSON(ctx, s.store, storageKey, &u)
	if err != nil && !errors.Is(err, kv.ErrCorrupt) {
		return fmt.Errorf("load ai usage: %w", err)
	}
	if !found || err != nil || u.Month != month {
		u = usage{Month: month, Remaining: s.monthly}
	}
	if u.Remaining <= 0 {
		return ErrInsufficientTokens
	}
	u.Remaining--
	if err := kv.SetJSON(ctx, s.store, storageKey, u); err != nil {
		return fmt.Errorf("save ai usage: %w", err)
	}
	return nil
}

// Remaining reports the tokens left this month.
func (s *Service) Remaining(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u usage
	found, err := kv.GetJSON(ctx, s.store, storageKey, &u)
	if err != nil || !found || u.Month != s.now().Format("2006-01") {
		return s.monthly
	}
	return u.Remaining
}

// Metered wraps an interpreter so each call spends a token. Calls over the
// allowance fail without reaching the model.
func (s *Service) Metered(next ai.QueryInterpreter) ai.QueryInterpreter {
	return &meteredInterpreter{next: next, usage: s}
}

type meteredInterpreter struct {
	next  ai.QueryInterpreter
	usage *Service
}

func (m *meteredInterpreter) InterpretQuery(ctx context.Context, query string, categories []string) (*ai.Interpretation, error) {
	if err := m.usage.UseToken(ctx); err != nil {
		if errors.Is(err, ErrInsufficientTokens) {
			m.usage.logger.Warn("monthly assisted search allowance exhausted")
		}
		return nil, err
	}
	return m.next.InterpretQuery(ctx, query, categories)
}
