package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"campusnav/internal/kv"
)

type fakeSender struct {
	tokens []string
	err    error
}

func (f *fakeSender) Send(_ context.Context, token string, _ Notification) (string, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

type failingStore struct{}

var errBackend = errors.New("backend unavailable")

func (failingStore) Get(context.Context, string) (string, error) { return "", errBackend }
func (failingStore) Set(context.Context, string, string) error { return errBackend }
func (failingStore) Delete(context.Context, string) error { return errBackend }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInboxLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemory(), nil, quietLogger())

	first, ok := svc.Publish(ctx, "Library hours", "Balme Library closes at 5pm today", "")
	if !ok {
		t.Fatal("Publish failed")
	}
	second, _ := svc.Publish(ctx, Welcome.Title, Welcome.Message, "")

	list := svc.List(ctx)
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("inbox order = %+v", list)
	}
	if first.ID == second.ID {
		t.Fatal("ids should be unique")
	}
	if n := svc.UnreadCount(ctx); n != 2 {
		t.Errorf("unread = %d, want 2", n)
	}

	if !svc.MarkRead(ctx, first.ID) {
		t.Fatal("MarkRead failed")
	}
	if n := svc.UnreadCount(ctx); n != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", n)
	}

	if !svc.MarkAllRead(ctx) {
		t.Fatal("MarkAllRead failed")
	}
	if n := svc.UnreadCount(ctx); n != 0 {
		t.Errorf("unread after MarkAllRead = %d", n)
	}

	if !svc.Delete(ctx, second.ID) {
		t.Fatal("Delete failed")
	}
	if list := svc.List(ctx); len(list) != 1 || list[0].ID != first.ID {
		t.Errorf("inbox after delete = %+v", list)
	}
}

func TestPublishPushesWhenTokenGiven(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	svc := NewService(kv.NewMemory(), sender, quietLogger())

	svc.Publish(ctx, "t", "m", "")
	svc.Publish(ctx, "t", "m", "device-token")
	if len(sender.tokens) != 1 || sender.tokens[0] != "device-token" {
		t.Errorf("sent to %v", sender.tokens)
	}
}

func TestPublishKeepsInboxWhenPushFails(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemory(), &fakeSender{err: errors.New("fcm down")}, quietLogger())

	n, ok := svc.Publish(ctx, "t", "m", "device-token")
	if !ok {
		t.Fatal("Publish should succeed when only the push fails")
	}
	if list := svc.List(ctx); len(list) != 1 || list[0].ID != n.ID {
		t.Errorf("inbox = %+v", list)
	}
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	svc := NewService(failingStore{}, sender, quietLogger())

	if list := svc.List(ctx); list == nil || len(list) != 0 {
		t.Errorf("List = %+v", list)
	}
	if _, ok := svc.Publish(ctx, "t", "m", "device-token"); ok {
		t.Error("Publish should fail")
	}
	if len(sender.tokens) != 0 {
		t.Error("nothing should be pushed when the inbox write fails")
	}
	if svc.MarkRead(ctx, "x") || svc.MarkAllRead(ctx) || svc.Delete(ctx, "x") {
		t.Error("mutations should fail")
	}
	if n := svc.UnreadCount(ctx); n != 0 {
		t.Errorf("UnreadCount = %d", n)
	}
}

func TestGreet_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemory(), nil, quietLogger())

	if !svc.Greet(ctx) {
		t.Fatal("Greet failed")
	}
	list := svc.List(ctx)
	if len(list) != 1 || list[0].Title != Welcome.Title || list[0].Read {
		t.Fatalf("inbox = %+v", list)
	}

	svc.Delete(ctx, list[0].ID)
	if !svc.Greet(ctx) {
		t.Fatal("second Greet failed")
	}
	if n := len(svc.List(ctx)); n != 0 {
		t.Errorf("welcome re-sent after delete, inbox has %d entries", n)
	}
}

func TestGreet_StoreFailure(t *testing.T) {
	svc := NewService(failingStore{}, nil, quietLogger())
	if svc.Greet(context.Background()) {
		t.Error("expected Greet to report failure")
	}
}
