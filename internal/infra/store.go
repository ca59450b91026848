// README: Selects and opens the configured key-value backend.
package infra

import (
	"context"
	"fmt"
	"log/slog"

	"campusnav/internal/config"
	"campusnav/internal/kv"
)

// OpenStore opens the backend named by cfg.Store.Backend. The returned close
// function releases its connections and is never nil.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (kv.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreMemory, "":
		logger.Warn("using in-memory store; data is lost on restart")
		return kv.NewMemory(), func() {}, nil
	case config.StoreRedis:
		client, err := NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedis(client), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		pool, err := NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		store := kv.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case config.StoreSQLite:
		store, err := kv.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
