package changefeed

import (
	"context"
	"errors"
	"sync"
)

// DefaultBuffer is the per-subscriber event buffer of a Broker.
const DefaultBuffer = 16

// ErrClosed is returned when publishing to or subscribing on a closed feed.
var ErrClosed = errors.New("changefeed: closed")

// Broker is an in-process Feed. It serves a single instance deployment and
// tests; multi-instance deployments use the Redis feed instead.
//
// Publish never blocks: when a subscriber's buffer is full the event is
// dropped for that subscriber, which is harmless because the buffered events
// already guarantee it will re-read the store.
type Broker struct {
	mu     sync.Mutex
	subs   map[*brokerSub]struct{}
	buffer int
	closed bool
}

// NewBroker creates a broker with the given per-subscriber buffer size.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[*brokerSub]struct{}),
		buffer: buffer,
	}
}

// Publish fans ev out to all current subscribers.
func (b *Broker) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	for s := range b.subs {
		select {
		case s.ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber. The subscription also ends when ctx
// is cancelled.
func (b *Broker) Subscribe(ctx context.Context) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	s := &brokerSub{
		broker: b,
		ch:     make(chan Event, b.buffer),
		done:   make(chan struct{}),
	}
	b.subs[s] = struct{}{}

	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
				_ = s.Close()
			case <-s.done:
			}
		}()
	}
	return s, nil
}

// Subscribers returns the number of open subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription and rejects further use.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for s := range b.subs {
		s.closeLocked()
	}
	return nil
}

type brokerSub struct {
	broker *Broker
	ch     chan Event

	done chan struct{}
	once sync.Once
}

func (s *brokerSub) Events() <-chan Event { return s.ch }

func (s *brokerSub) Close() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	s.closeLocked()
	return nil
}

// closeLocked must be called with broker.mu held.
func (s *brokerSub) closeLocked() {
	s.once.Do(func() {
		delete(s.broker.subs, s)
		close(s.ch)
		close(s.done)
	})
}
