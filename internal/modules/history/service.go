// README: History service records searches in the shared KV store and ranks selected locations.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"campusnav/internal/kv"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/types"
)

var storageKey = kv.Key("search_history")

// Service never returns storage errors; failures are logged and a safe
// default is returned. Concurrent mutations are last-writer-wins.
type Service struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time

	idMu   sync.Mutex
	lastID int64
}

type Option func(*Service)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store kv.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: store, logger: logger.With("component", "history"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns the persisted entries, most recent first.
func (s *Service) History(ctx context.Context) []Item {
	items, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load search history", "err", err)
		return []Item{}
	}
	return items
}

// AddSearch records query at the head of the history, replacing any entry
// with the same query ignoring case. It returns the updated list, or an empty
// list if persistence failed. Blank queries leave the history unchanged.
func (s *Service) AddSearch(ctx context.Context, query string) []Item {
	if strings.TrimSpace(query) == "" {
		return s.History(ctx)
	}
	items, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load search history", "err", err)
		return []Item{}
	}

	ts := s.now()
	next := make([]Item, 0, len(items)+1)
	next = append(next, Item{ID: s.nextID(ts), Query: query, Timestamp: ts})
	for _, it := range items {
		if strings.EqualFold(it.Query, query) {
			continue
		}
		next = append(next, it)
	}
	if len(next) > MaxItems {
		next = next[:MaxItems]
	}

	if err := kv.SetJSON(ctx, s.store, storageKey, next); err != nil {
		s.logger.Error("save search history", "err", err)
		return []Item{}
	}
	return next
}

// AttachLocation records which location the user picked for a search. It
// returns ErrNotFound for an unknown search id; any other error is a storage
// failure.
func (s *Service) AttachLocation(ctx context.Context, searchID types.ID, loc catalog.Location) error {
	items, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load search history", "err", err)
		return fmt.Errorf("load search history: %w", err)
	}
	found := false
	for i := range items {
		if items[i].ID == searchID {
			picked := loc
			items[i].LocationSelected = &picked
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, searchID)
	}
	if err := kv.SetJSON(ctx, s.store, storageKey, items); err != nil {
		s.logger.Error("save search history", "err", err)
		return fmt.Errorf("save search history: %w", err)
	}
	return nil
}

// DeleteItem removes a single entry. Deleting an unknown id succeeds.
func (s *Service) DeleteItem(ctx context.Context, searchID types.ID) bool {
	items, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load search history", "err", err)
		return false
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != searchID {
			kept = append(kept, it)
		}
	}
	if err := kv.SetJSON(ctx, s.store, storageKey, kept); err != nil {
		s.logger.Error("save search history", "err", err)
		return false
	}
	return true
}

func (s *Service) Clear(ctx context.Context) bool {
	if err := s.store.Delete(ctx, storageKey); err != nil {
		s.logger.Error("clear search history", "err", err)
		return false
	}
	return true
}

// FrequentLocations ranks selected locations by how many history entries
// reference them. Equal counts keep the order in which the location first
// appears in the most-recent-first history.
func (s *Service) FrequentLocations(ctx context.Context, limit int) []LocationCount {
	if limit <= 0 {
		limit = DefaultFrequentLimit
	}
	items := s.History(ctx)

	index := make(map[types.ID]int)
	var ranked []LocationCount
	for _, it := range items {
		if it.LocationSelected == nil {
			continue
		}
		id := it.LocationSelected.ID
		if i, ok := index[id]; ok {
			ranked[i].Count++
			continue
		}
		index[id] = len(ranked)
		ranked = append(ranked, LocationCount{Location: *it.LocationSelected, Count: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		return []LocationCount{}
	}
	return ranked
}

func (s *Service) load(ctx context.Context) ([]Item, error) {
	var items []Item
	_, err := kv.GetJSON(ctx, s.store, storageKey, &items)
	if errors.Is(err, kv.ErrCorrupt) {
		s.logger.Warn("discarding unreadable search history", "err", err)
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// nextID derives an id from the creation time in Unix milliseconds, bumped so
// ids issued by this process are strictly increasing.
func (s *Service) nextID(ts time.Time) types.ID {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := ts.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return types.ID(strconv.FormatInt(id, 10))
}
