package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/changefeed"
	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
)

type fakeListings struct {
	deleted int
	err     error
}

func (f *fakeListings) List(context.Context, store.ListOptions) ([]domain.Listing, error) {
	return nil, f.err
}

func (f *fakeListings) Insert(_ context.Context, n domain.NewListing) (domain.Listing, error) {
	if f.err != nil {
		return domain.Listing{}, f.err
	}
	return domain.Listing{ID: "new-id", Name: n.Name}, nil
}

func (f *fakeListings) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}

func (f *fakeListings) Ping(context.Context) error { return f.err }

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, changefeed.Event) error {
	return errors.New("redis down")
}

func nextEvent(t *testing.T, sub changefeed.Subscription) (changefeed.Event, bool) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev, true
	case <-time.After(50 * time.Millisecond):
		return changefeed.Event{}, false
	}
}

func TestObservedPublishesMutations(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	feed := changefeed.NewBroker(4)
	defer func() { _ = feed.Close() }()

	sub, err := feed.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	inner := &fakeListings{deleted: 2}
	obs := store.NewObserved(inner, feed, log)

	if _, err := obs.Insert(ctx, domain.NewListing{Name: "ann"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	ev, ok := nextEvent(t, sub)
	if !ok || ev.Op != changefeed.OpInsert || len(ev.IDs) != 1 || ev.IDs[0] != "new-id" {
		t.Fatalf("unexpected insert event: %+v (received=%v)", ev, ok)
	}
	if ev.At.IsZero() {
		t.Error("event timestamp not set")
	}

	if _, err := obs.DeleteByIDs(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ev, ok = nextEvent(t, sub)
	if !ok || ev.Op != changefeed.OpDelete || len(ev.IDs) != 2 {
		t.Fatalf("unexpected delete event: %+v (received=%v)", ev, ok)
	}
}

func TestObservedSkipsNoopAndFailedWrites(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	feed := changefeed.NewBroker(4)
	defer func() { _ = feed.Close() }()

	sub, err := feed.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	obs := store.NewObserved(&fakeListings{deleted: 0}, feed, log)
	if _, err := obs.DeleteByIDs(ctx, []string{"gone"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ev, ok := nextEvent(t, sub); ok {
		t.Errorf("no-op delete published %+v", ev)
	}

	failing := store.NewObserved(&fakeListings{err: errors.New("disk full")}, feed, log)
	if _, err := failing.Insert(ctx, domain.NewListing{Name: "x"}); err == nil {
		t.Fatal("expected insert error")
	}
	if ev, ok := nextEvent(t, sub); ok {
		t.Errorf("failed insert published %+v", ev)
	}
}

func TestObservedPublishFailureKeepsWrite(t *testing.T) {
	obs := store.NewObserved(&fakeListings{}, failingPublisher{}, logger.New("error", false))

	l, err := obs.Insert(context.Background(), domain.NewListing{Name: "ann"})
	if err != nil {
		t.Fatalf("insert should succeed despite publish failure: %v", err)
	}
	if l.ID != "new-id" {
		t.Errorf("ID = %q, want new-id", l.ID)
	}
}
