package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/partnerfinder/internal/changefeed"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// ChangeFeed fans listing change events out to every instance through
// Redis pub/sub.
type ChangeFeed struct {
	client  *redis.Client
	channel string
	buffer  int
	logger  logger.Logger

	mu     sync.Mutex
	subs   map[*feedSubscription]struct{}
	closed bool
}

// NewChangeFeed creates a feed on ChannelListingChanges. buffer is the size
// of each subscriber's event channel.
func (s *Store) NewChangeFeed(log logger.Logger, buffer int) *ChangeFeed {
	if buffer <= 0 {
		buffer = changefeed.DefaultBuffer
	}
	return &ChangeFeed{
		client:  s.client,
		channel: ChannelListingChanges,
		buffer:  buffer,
		logger:  log.Named("redis_changefeed"),
		subs:    make(map[*feedSubscription]struct{}),
	}
}

// Publish sends ev to all subscribers on every instance
func (f *ChangeFeed) Publish(ctx context.Context, ev changefeed.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscribe opens a dedicated pub/sub connection. The subscription is
// confirmed before Subscribe returns so no event published afterwards is
// missed.
func (f *ChangeFeed) Subscribe(ctx context.Context) (changefeed.Subscription, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, changefeed.ErrClosed
	}
	f.mu.Unlock()

	ps := f.client.Subscribe(ctx, f.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", f.channel, err)
	}

	sub := &feedSubscription{
		feed:   f,
		ps:     ps,
		events: make(chan changefeed.Event, f.buffer),
		done:   make(chan struct{}),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = ps.Close()
		return nil, changefeed.ErrClosed
	}
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	go sub.pump(ctx)
	return sub, nil
}

// Close ends every open subscription
func (f *ChangeFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	subs := make([]*feedSubscription, 0, len(f.subs))
	for s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	for _, s := range subs {
		_ = s.Close()
	}
	return nil
}

type feedSubscription struct {
	feed   *ChangeFeed
	ps     *redis.PubSub
	events chan changefeed.Event
	done   chan struct{}
	once   sync.Once
}

func (s *feedSubscription) Events() <-chan changefeed.Event { return s.events }

func (s *feedSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()

		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
	})
	return err
}

// pump forwards decoded messages until the subscription or ctx ends. A full
// buffer drops the event: the subscriber already has a re-read pending.
func (s *feedSubscription) pump(ctx context.Context) {
	defer close(s.events)

	msgs := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case <-s.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			ev, err := decodeEvent(msg.Payload)
			if err != nil {
				s.feed.logger.Warn("dropping malformed change event", logger.Error(err))
				continue
			}
			select {
			case s.events <- ev:
			default:
			}
		}
	}
}

func decodeEvent(payload string) (changefeed.Event, error) {
	var ev changefeed.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return changefeed.Event{}, fmt.Errorf("failed to unmarshal change event: %w", err)
	}
	if ev.Op == "" {
		return changefeed.Event{}, fmt.Errorf("change event without op: %q", payload)
	}
	return ev, nil
}
