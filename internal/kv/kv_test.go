package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store, key string) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on missing key: got %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, key, `["a"]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := s.Get(ctx, key); err != nil || got != `["a"]` {
		t.Fatalf("Get after Set = %q, %v", got, err)
	}
	if err := s.Set(ctx, key, `["a","b"]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, key); got != `["a","b"]` {
		t.Fatalf("Get after overwrite = %q", got)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete of missing key should succeed, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory(), Key("test"))
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s, Key("test"))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CAMPUSNAV_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAMPUSNAV_TEST_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	exerciseStore(t, NewRedis(rdb), Key(fmt.Sprintf("test_%d", time.Now().UnixNano())))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CAMPUSNAV_TEST_DSN")
	if dsn == "" {
		t.Skip("CAMPUSNAV_TEST_DSN not set; skipping DB-backed tests")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewPostgres(db)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	exerciseStore(t, s, Key(fmt.Sprintf("test_%d", time.Now().UnixNano())))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	key := Key("json")

	var ids []string
	found, err := GetJSON(ctx, s, key, &ids)
	if err != nil || found {
		t.Fatalf("GetJSON on missing key = %v, %v", found, err)
	}

	if err := SetJSON(ctx, s, key, []string{"balme-library", "great-hall"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	found, err = GetJSON(ctx, s, key, &ids)
	if err != nil || !found {
		t.Fatalf("GetJSON = %v, %v", found, err)
	}
	if len(ids) != 2 || ids[0] != "balme-library" || ids[1] != "great-hall" {
		t.Errorf("unexpected ids: %v", ids)
	}

	_ = s.Set(ctx, key, "{not json")
	if _, err := GetJSON(ctx, s, key, &ids); !errors.Is(err, ErrCorrupt) {
		t.Errorf("GetJSON corrupt err = %v, want ErrCorrupt", err)
	}
}

func TestKeyIsNamespaced(t *testing.T) {
	if got := Key("favorites"); got != "campusnav:favorites" {
		t.Errorf("Key() = %q", got)
	}
}
