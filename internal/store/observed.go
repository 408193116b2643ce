package store

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/changefeed"
	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// Observed wraps a Listings store and publishes a change event after every
// successful mutation.
type Observed struct {
	Listings
	feed   changefeed.Publisher
	logger logger.Logger
	now    func() time.Time
}

// NewObserved decorates next so that inserts and deletes reach feed.
func NewObserved(next Listings, feed changefeed.Publisher, log logger.Logger) *Observed {
	return &Observed{
		Listings: next,
		feed:     feed,
		logger:   log,
		now:      time.Now,
	}
}

// Insert persists the listing, then announces it.
func (o *Observed) Insert(ctx context.Context, n domain.NewListing) (domain.Listing, error) {
	l, err := o.Listings.Insert(ctx, n)
	if err != nil {
		return domain.Listing{}, err
	}
	o.publish(ctx, changefeed.Event{Op: changefeed.OpInsert, IDs: []string{l.ID}})
	return l, nil
}

// DeleteByIDs deletes the listings and announces it when anything was removed.
func (o *Observed) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	n, err := o.Listings.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		o.publish(ctx, changefeed.Event{Op: changefeed.OpDelete, IDs: ids})
	}
	return n, nil
}

// The write already succeeded, so a failed publish is only logged.
// Subscribers catch up on the next event or their own refilter tick.
func (o *Observed) publish(ctx context.Context, ev changefeed.Event) {
	ev.At = o.now()
	if err := o.feed.Publish(ctx, ev); err != nil {
		o.logger.Warn("failed to publish listing change",
			logger.String("op", string(ev.Op)),
			logger.Int("ids", len(ev.IDs)),
			logger.Error(err))
	}
}
