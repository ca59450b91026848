package favorites

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"campusnav/internal/kv"
	"campusnav/internal/types"
)

type failingStore struct{}

var errBackend = errors.New("backend unavailable")

func (failingStore) Get(context.Context, string) (string, error) { return "", errBackend }
func (failingStore) Set(context.Context, string, string) error { return errBackend }
func (failingStore) Delete(context.Context, string) error { return errBackend }

func newTestService(store kv.Store) *Service {
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())

	for _, id := range []types.ID{"great-hall", "balme-library", "great-hall", "night-market"} {
		if !svc.Add(ctx, id) {
			t.Fatalf("Add(%s) returned false", id)
		}
	}
	want := []types.ID{"great-hall", "balme-library", "night-market"}
	if got := svc.List(ctx); !slices.Equal(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestAddRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())

	svc.Add(ctx, "balme-library")
	if !svc.IsFavorite(ctx, "balme-library") {
		t.Fatal("expected favorite after Add")
	}
	if !svc.Remove(ctx, "balme-library") {
		t.Fatal("Remove returned false")
	}
	if svc.IsFavorite(ctx, "balme-library") {
		t.Error("still favorite after Remove")
	}
	if !svc.Remove(ctx, "balme-library") {
		t.Error("removing a non-favorite should succeed")
	}
	if got := svc.List(ctx); len(got) != 0 {
		t.Errorf("List = %v, want empty", got)
	}
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(failingStore{})

	if got := svc.List(ctx); got == nil || len(got) != 0 {
		t.Errorf("List = %v, want empty", got)
	}
	if svc.Add(ctx, "x") {
		t.Error("Add should fail")
	}
	if svc.Remove(ctx, "x") {
		t.Error("Remove should fail")
	}
	if svc.IsFavorite(ctx, "x") {
		t.Error("IsFavorite should be false")
	}
}

func TestCorruptFavoritesAreReplaced(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_ = store.Set(ctx, storageKey, "[1,")
	svc := newTestService(store)

	if !svc.Add(ctx, "great-hall") {
		t.Fatal("Add on corrupt value returned false")
	}
	if got := svc.List(ctx); !slices.Equal(got, []types.ID{"great-hall"}) {
		t.Errorf("List = %v", got)
	}
}
