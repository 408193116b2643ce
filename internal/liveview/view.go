// Package liveview keeps one client's copy of the active listing set in sync
// with the store.
//
// Two independent triggers drive a View: change notifications, which cause a
// full re-read of the store, and a refilter ticker, which hides listings whose
// start time has just passed without a round trip. Both feed the same
// reconcile step.
package liveview

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/changefeed"
	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
)

// DefaultRefilterInterval is how often a view re-applies the expiry filter
// to the listings it already holds.
const DefaultRefilterInterval = 60 * time.Second

// ErrSubscriptionClosed is reported when the change stream ends while the
// view is still running.
var ErrSubscriptionClosed = errors.New("liveview: subscription closed")

// Reader is the read side of the listing store a view needs.
type Reader interface {
	List(ctx context.Context, opts store.ListOptions) ([]domain.Listing, error)
}

// Snapshot is one state of the view as seen by the client.
type Snapshot struct {
	// Listings is the visible set in display order. On error it holds the
	// last good set.
	Listings []domain.Listing
	// Err is set when the latest read or subscription attempt failed.
	Err error
	At  time.Time
}

// Options configures a View.
type Options struct {
	// Now returns the current time in the zone listing dates are written in.
	Now              func() time.Time
	RefilterInterval time.Duration
	// Query narrows the visible set; the zero value shows everything.
	Query domain.Query
}

// View is a single client's live listing set. It is not reusable: call Run
// once.
type View struct {
	reader Reader
	feed   changefeed.Subscriber
	logger logger.Logger
	opts   Options

	mu      sync.RWMutex
	held    []domain.Listing
	visible []domain.Listing

	updates chan Snapshot
}

// New creates a view over reader that listens on feed.
func New(reader Reader, feed changefeed.Subscriber, log logger.Logger, opts Options) *View {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RefilterInterval <= 0 {
		opts.RefilterInterval = DefaultRefilterInterval
	}
	return &View{
		reader:  reader,
		feed:    feed,
		logger:  log.Named("liveview"),
		opts:    opts,
		updates: make(chan Snapshot, 1),
	}
}

// Updates delivers snapshots. Only the latest undelivered snapshot is kept.
// The channel is closed when Run returns.
func (v *View) Updates() <-chan Snapshot { return v.updates }

// Current returns the visible listings as of the last reconcile.
func (v *View) Current() []domain.Listing {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.visible)
}

// Run subscribes, loads the initial set and keeps the view current until ctx
// is done. The refilter ticker is stopped and the subscription closed before
// Run returns.
func (v *View) Run(ctx context.Context) error {
	defer close(v.updates)

	sub, err := v.feed.Subscribe(ctx)
	if err != nil {
		v.logger.Warn("failed to subscribe to listing changes", logger.Error(err))
		v.emit(Snapshot{Err: err, At: v.opts.Now()})
		return err
	}
	defer func() {
		if err := sub.Close(); err != nil {
			v.logger.Debug("failed to close subscription", logger.Error(err))
		}
	}()

	ticker := time.NewTicker(v.opts.RefilterInterval)
	defer ticker.Stop()

	v.reconcile(ctx, true)

	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				v.logger.Warn("listing change subscription ended")
				v.emit(Snapshot{Listings: v.Current(), Err: ErrSubscriptionClosed, At: v.opts.Now()})
				return ErrSubscriptionClosed
			}
			v.reconcile(ctx, true)
		case <-ticker.C:
			v.reconcile(ctx, false)
		}
	}
}

// reconcile recomputes the visible set. With refetch it first replaces the
// held set with a fresh read of the store. A snapshot is emitted after every
// refetch and whenever the visible set changes.
func (v *View) reconcile(ctx context.Context, refetch bool) {
	now := v.opts.Now()

	if refetch {
		listings, err := v.reader.List(ctx, store.ListOptions{OrderBy: store.OrderBySchedule})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			v.logger.Warn("failed to read listings", logger.Error(err))
			v.emit(Snapshot{Listings: v.Current(), Err: err, At: now})
			return
		}
		v.mu.Lock()
		v.held = listings
		v.mu.Unlock()
	}

	v.mu.Lock()
	next := v.opts.Query.Filter(domain.ActiveOnly(v.held, now))
	changed := !sameIDs(v.visible, next)
	v.visible = next
	v.mu.Unlock()

	if refetch || changed {
		v.emit(Snapshot{Listings: slices.Clone(next), At: now})
	}
}

// emit replaces any undelivered snapshot with s. Run is the only producer.
func (v *View) emit(s Snapshot) {
	select {
	case v.updates <- s:
		return
	default:
	}
	select {
	case <-v.updates:
	default:
	}
	v.updates <- s
}

func sameIDs(a, b []domain.Listing) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
