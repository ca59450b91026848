// README: Favorites is the persisted, ordered set of favorited location ids.
package favorites

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"campusnav/internal/kv"
	"campusnav/internal/types"
)

var storageKey = kv.Key("favorites")

// Service rewrites the whole set on every change. Storage errors are logged
// and reported as false or an empty list.
type Service struct {
	store  kv.Store
	logger *slog.Logger
}

func NewService(store kv.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger.With("component", "favorites")}
}

// List returns favorited ids in the order they were added.
func (s *Service) List(ctx context.Context) []types.ID {
	ids, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load favorites", "err", err)
		return []types.ID{}
	}
	return ids
}

// Add favorites id. Adding an existing favorite is a successful no-op.
func (s *Service) Add(ctx context.Context, id types.ID) bool {
	ids, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load favorites", "err", err)
		return false
	}
	if slices.Contains(ids, id) {
		return true
	}
	return s.save(ctx, append(ids, id))
}

// Remove unfavorites id. Removing an id that is not a favorite succeeds.
func (s *Service) Remove(ctx context.Context, id types.ID) bool {
	ids, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load favorites", "err", err)
		return false
	}
	i := slices.Index(ids, id)
	if i < 0 {
		return true
	}
	return s.save(ctx, slices.Delete(ids, i, i+1))
}

func (s *Service) IsFavorite(ctx context.Context, id types.ID) bool {
	return slices.Contains(s.List(ctx), id)
}

func (s *Service) load(ctx context.Context) ([]types.ID, error) {
	var ids []types.ID
	_, err := kv.GetJSON(ctx, s.store, storageKey, &ids)
	if errors.Is(err, kv.ErrCorrupt) {
		s.logger.Warn("discarding unreadable favorites", "err", err)
		return []types.ID{}, nil
	}
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []types.ID{}
	}
	return ids, nil
}

func (s *Service) save(ctx context.Context, ids []types.ID) bool {
	if err := kv.SetJSON(ctx, s.store, storageKey, ids); err != nil {
		s.logger.Error("save favorites", "err", err)
		return false
	}
	return true
}
