// README: Notification service keeps the persisted inbox and pushes new entries to devices.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"campusnav/internal/kv"
	"campusnav/internal/types"
)

var (
	storageKey = kv.Key("notifications")
	welcomeKey = kv.Key("welcome_sent")
)

// Service follows the same failure policy as the other stores: storage
// errors are logged and surface as false, zero or an empty list.
type Service struct {
	store  kv.Store
	sender Sender
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the inbox. sender may be nil, in which case Publish only
// records the notification.
func NewService(store kv.Store, sender Sender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, sender: sender, logger: logger.With("component", "notification"), now: time.Now}
}

// List returns the inbox, newest first.
func (s *Service) List(ctx context.Context) []Notification {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load notifications", "err", err)
		return []Notification{}
	}
	return list
}

// Save prepends n to the inbox.
func (s *Service) Save(ctx context.Context, n Notification) bool {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load notifications", "err", err)
		return false
	}
	return s.save(ctx, append([]Notification{n}, list...))
}

func (s *Service) MarkRead(ctx context.Context, id types.ID) bool {
	return s.update(ctx, func(list []Notification) []Notification {
		for i := range list {
			if list[i].ID == id {
				list[i].Read = true
			}
		}
		return list
	})
}

func (s *Service) MarkAllRead(ctx context.Context) bool {
	return s.update(ctx, func(list []Notification) []Notification {
		for i := range list {
			list[i].Read = true
		}
		return list
	})
}

func (s *Service) Delete(ctx context.Context, id types.ID) bool {
	return s.update(ctx, func(list []Notification) []Notification {
		kept := list[:0]
		for _, n := range list {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		return kept
	})
}

func (s *Service) UnreadCount(ctx context.Context) int {
	count := 0
	for _, n := range s.List(ctx) {
		if !n.Read {
			count++
		}
	}
	return count
}

// Publish records a new unread notification and, when a sender and device
// token are available, pushes it. A failed push is logged; the inbox entry
// is kept either way.
func (s *Service) Publish(ctx context.Context, title, message, deviceToken string) (Notification, bool) {
	n := Notification{
		ID:      types.ID(uuid.NewString()),
		Title:   title,
		Message: message,
		Time:    s.now().UTC(),
	}
	if !s.Save(ctx, n) {
		return Notification{}, false
	}
	if s.sender == nil || deviceToken == "" {
		return n, true
	}
	messageID, err := s.sender.Send(ctx, deviceToken, n)
	if err != nil {
		s.logger.Error("push notification", "id", n.ID, "err", err)
		return n, true
	}
	s.logger.Info("push notification sent", "id", n.ID, "message_id", messageID)
	return n, true
}

// Greet publishes the Welcome message once per store. Later calls are no-ops,
// even after the welcome entry has been deleted.
func (s *Service) Greet(ctx context.Context) bool {
	var sent bool
	if _, err := kv.GetJSON(ctx, s.store, welcomeKey, &sent); err != nil && !errors.Is(err, kv.ErrCorrupt) {
		s.logger.Error("load welcome flag", "err", err)
		return false
	}
	if sent {
		return true
	}
	if _, ok := s.Publish(ctx, Welcome.Title, Welcome.Message, ""); !ok {
		return false
	}
	if err := kv.SetJSON(ctx, s.store, welcomeKey, true); err != nil {
		s.logger.Error("save welcome flag", "err", err)
		return false
	}
	return true
}

func (s *Service) update(ctx context.Context, fn func([]Notification) []Notification) bool {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.Error("load notifications", "err", err)
		return false
	}
	return s.save(ctx, fn(list))
}

func (s *Service) load(ctx context.Context) ([]Notification, error) {
	var list []Notification
	_, err := kv.GetJSON(ctx, s.store, storageKey, &list)
	if errors.Is(err, kv.ErrCorrupt) {
		s.logger.Warn("discarding unreadable notifications", "err", err)
		return []Notification{}, nil
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Notification{}
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, list []Notification) bool {
	if err := kv.SetJSON(ctx, s.store, storageKey, list); err != nil {
		s.logger.Error("save notifications", "err", err)
		return false
	}
	return true
}
