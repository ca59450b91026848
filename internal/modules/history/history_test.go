package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"campusnav/internal/kv"
	"campusnav/internal/modules/catalog"
	"campusnav/internal/types"
)

type failingStore struct{}

var errBackend = errors.New("backend unavailable")

func (failingStore) Get(context.Context, string) (string, error) { return "", errBackend }
func (failingStore) Set(context.Context, string, string) error { return errBackend }
func (failingStore) Delete(context.Context, string) error { return errBackend }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns the same instant on every call, forcing id bumps.
func fixedClock() func() time.Time {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func newTestService(store kv.Store) *Service {
	return NewService(store, quietLogger(), WithClock(fixedClock()))
}

func TestAddSearchDeduplicatesCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())

	svc.AddSearch(ctx, "Library")
	svc.AddSearch(ctx, "gym")
	items := svc.AddSearch(ctx, "LIBRARY")

	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	if items[0].Query != "LIBRARY" || items[1].Query != "gym" {
		t.Errorf("order = %q, %q", items[0].Query, items[1].Query)
	}
	if got := svc.History(ctx); len(got) != 2 || got[0].ID != items[0].ID {
		t.Errorf("persisted history mismatch: %+v", got)
	}
}

func TestAddSearchCapsHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())

	for i := 0; i < MaxItems+7; i++ {
		svc.AddSearch(ctx, fmt.Sprintf("query %d", i))
	}
	items := svc.History(ctx)
	if len(items) != MaxItems {
		t.Fatalf("len = %d, want %d", len(items), MaxItems)
	}
	if items[0].Query != fmt.Sprintf("query %d", MaxItems+6) {
		t.Errorf("newest = %q", items[0].Query)
	}
	if items[MaxItems-1].Query != "query 7" {
		t.Errorf("oldest kept = %q, want query 7", items[MaxItems-1].Query)
	}
}

func TestIDsStrictlyIncrease(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())

	var prev int64
	for i := 0; i < 5; i++ {
		items := svc.AddSearch(ctx, fmt.Sprintf("q%d", i))
		id, err := strconv.ParseInt(string(items[0].ID), 10, 64)
		if err != nil {
			t.Fatalf("id %q is not numeric: %v", items[0].ID, err)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than %d", id, prev)
		}
		prev = id
	}
}

func TestBlankQueryIsIgnored(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())
	svc.AddSearch(ctx, "hall")

	if items := svc.AddSearch(ctx, "   "); len(items) != 1 || items[0].Query != "hall" {
		t.Errorf("blank query changed history: %+v", items)
	}
}

func TestAttachDeleteClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())
	items := svc.AddSearch(ctx, "library")
	loc := catalog.Location{ID: "balme-library", Name: "Balme Library", Category: catalog.CategoryAcademic}

	if err := svc.AttachLocation(ctx, items[0].ID, loc); err != nil {
		t.Fatalf("AttachLocation: %v", err)
	}
	if got := svc.History(ctx)[0].LocationSelected; got == nil || got.ID != "balme-library" {
		t.Errorf("location not attached: %+v", got)
	}
	if err := svc.AttachLocation(ctx, "missing", loc); !errors.Is(err, ErrNotFound) {
		t.Errorf("AttachLocation on unknown id err = %v, want ErrNotFound", err)
	}

	if !svc.DeleteItem(ctx, items[0].ID) {
		t.Fatal("DeleteItem returned false")
	}
	if n := len(svc.History(ctx)); n != 0 {
		t.Errorf("history len after delete = %d", n)
	}

	svc.AddSearch(ctx, "gym")
	if !svc.Clear(ctx) {
		t.Fatal("Clear returned false")
	}
	if n := len(svc.History(ctx)); n != 0 {
		t.Errorf("history len after clear = %d", n)
	}
}

func TestFrequentLocations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())

	pick := func(query string, id types.ID) {
		items := svc.AddSearch(ctx, query)
		if err := svc.AttachLocation(ctx, items[0].ID, catalog.Location{ID: id, Name: string(id)}); err != nil {
			t.Fatalf("attach %s: %v", id, err)
		}
	}
	pick("lib", "library")
	pick("gym", "gym")
	pick("books", "library")
	pick("pool", "pool")
	pick("sports", "gym")
	pick("reading", "library")
	svc.AddSearch(ctx, "nothing picked")

	got := svc.FrequentLocations(ctx, 0)
	want := []struct {
		id    types.ID
		count int
	}{{"library", 3}, {"gym", 2}, {"pool", 1}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Location.ID != w.id || got[i].Count != w.count {
			t.Errorf("rank %d = %s/%d, want %s/%d", i, got[i].Location.ID, got[i].Count, w.id, w.count)
		}
	}

	if top := svc.FrequentLocations(ctx, 1); len(top) != 1 || top[0].Location.ID != "library" {
		t.Errorf("limit 1 = %+v", top)
	}
}

func TestFrequentLocationsTiesKeepHistoryOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(kv.NewMemory())
	for _, id := range []types.ID{"a", "b", "c"} {
		items := svc.AddSearch(ctx, string(id))
		svc.AttachLocation(ctx, items[0].ID, catalog.Location{ID: id})
	}
	got := svc.FrequentLocations(ctx, 5)
	// most recent first: c, b, a
	if len(got) != 3 || got[0].Location.ID != "c" || got[1].Location.ID != "b" || got[2].Location.ID != "a" {
		t.Errorf("tie order = %+v", got)
	}
}

func TestStorageFailuresReturnDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(failingStore{})

	if items := svc.History(ctx); items == nil || len(items) != 0 {
		t.Errorf("History = %+v, want empty", items)
	}
	if items := svc.AddSearch(ctx, "library"); items == nil || len(items) != 0 {
		t.Errorf("AddSearch = %+v, want empty", items)
	}
	if err := svc.AttachLocation(ctx, "1", catalog.Location{}); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("AttachLocation err = %v, want storage error", err)
	}
	if svc.DeleteItem(ctx, "1") {
		t.Error("DeleteItem should fail")
	}
	if svc.Clear(ctx) {
		t.Error("Clear should fail")
	}
	if got := svc.FrequentLocations(ctx, 5); got == nil || len(got) != 0 {
		t.Errorf("FrequentLocations = %+v, want empty", got)
	}
}

func TestCorruptHistoryIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_ = store.Set(ctx, storageKey, "not json")
	svc := newTestService(store)

	if items := svc.History(ctx); len(items) != 0 {
		t.Errorf("History on corrupt value = %+v", items)
	}
	if items := svc.AddSearch(ctx, "library"); len(items) != 1 {
		t.Errorf("AddSearch on corrupt value = %+v", items)
	}
}

// readOnlyStore serves reads from an underlying store and fails every write.
type readOnlyStore struct{ kv.Store }

func (readOnlyStore) Set(context.Context, string, string) error { return errBackend }

func TestAttachLocationSaveFailure(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	items := newTestService(mem).AddSearch(ctx, "library")

	svc := newTestService(readOnlyStore{mem})
	err := svc.AttachLocation(ctx, items[0].ID, catalog.Location{ID: "balme-library"})
	if !errors.Is(err, errBackend) || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want wrapped storage error", err)
	}
}
