// Package changefeed carries listing mutation notifications from the store
// to everyone watching the listing set.
//
// Events are hints, not data: a subscriber reacts to any event by re-reading
// the store, so event order and duplicate delivery do not matter.
package changefeed

import (
	"context"
	"time"
)

// Op is the kind of mutation that happened.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes one mutation of the listings table.
type Event struct {
	Op  Op        `json:"op"`
	IDs []string  `json:"ids,omitempty"`
	At  time.Time `json:"at"`
}

// Publisher sends events to every current subscriber.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscriber opens a new subscription to the listing change stream.
type Subscriber interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Feed is both ends of the change stream.
type Feed interface {
	Publisher
	Subscriber
	Close() error
}

// Subscription delivers events until Close is called. The Events channel is
// closed once the subscription has ended.
type Subscription interface {
	Events() <-chan Event
	Close() error
}
