package changefeed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestBrokerFanOut(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(4)
	defer func() { _ = b.Close() }()

	s1, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	s2, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := b.Publish(ctx, Event{Op: OpInsert, IDs: []string{"x"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, s := range []Subscription{s1, s2} {
		ev := receive(t, s)
		if ev.Op != OpInsert || len(ev.IDs) != 1 || ev.IDs[0] != "x" {
			t.Errorf("unexpected event: %+v", ev)
		}
	}
}

func TestBrokerPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(1)
	defer func() { _ = b.Close() }()

	sub, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = b.Publish(ctx, Event{Op: OpDelete})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// At least one event stays pending.
	receive(t, sub)
}

func TestBrokerSubscriptionClose(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(0)
	defer func() { _ = b.Close() }()

	sub, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if got := b.Subscribers(); got != 1 {
		t.Fatalf("Subscribers() = %d, want 1", got)
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Closing twice is harmless.
	if err := sub.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if _, ok := <-sub.Events(); ok {
		t.Error("events channel should be closed")
	}
	if got := b.Subscribers(); got != 0 {
		t.Errorf("Subscribers() = %d, want 0", got)
	}
}

func TestBrokerSubscriptionEndsWithContext(t *testing.T) {
	b := NewBroker(0)
	defer func() { _ = b.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestBrokerClosed(t *testing.T) {
	ctx := context.Background()
	b := NewBroker(0)

	sub, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, ok := <-sub.Events(); ok {
		t.Error("subscription should end when the broker closes")
	}
	if err := b.Publish(ctx, Event{Op: OpInsert}); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish() after close = %v, want ErrClosed", err)
	}
	if _, err := b.Subscribe(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe() after close = %v, want ErrClosed", err)
	}
}
