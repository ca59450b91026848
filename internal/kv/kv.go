// README: String key-value persistence shared by the favorites, history and notification stores.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Namespace prefixes every key owned by this application.
const Namespace = "campusnav:"

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrCorrupt  = errors.New("kv: value is not valid JSON")
)

// Store is a process-wide string key-value store. Each component owns one key
// and rewrites it whole; there are no cross-key transactions.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key returns the namespaced key for a component.
func Key(name string) string {
	return Namespace + name
}

// GetJSON loads key into dst. It reports false (and leaves dst untouched)
// when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SetJSON serializes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// Verify backends satisfy Store at compile time.
var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*SQLite)(nil)
)
