package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
)

const (
	// DefaultCollectInterval is how often expired listings are purged.
	DefaultCollectInterval = time.Hour
)

// Result summarizes one collection run. It is serialized as the response of
// the cleanup endpoint.
type Result struct {
	Success      bool   `json:"success"`
	DeletedCount *int   `json:"deletedCount,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Deleted returns the number of deleted listings, zero on failure.
func (r Result) Deleted() int {
	if r.DeletedCount == nil {
		return 0
	}
	return *r.DeletedCount
}

// ExpiryCollector deletes listings whose start time plus the grace period
// has passed.
//
// Runs may overlap (ticker and on-demand trigger): deleting an already
// deleted ID is a no-op, so the worst case is duplicated work.
type ExpiryCollector struct {
	store     store.Listings
	logger    logger.Logger
	now       func() time.Time
	interval  time.Duration
	grace     time.Duration
	batchSize int

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewExpiryCollector creates a new collector.
//
// now must return the current time in the zone listing dates are written in.
// A batchSize of zero reads the whole table at once and issues a single delete.
func NewExpiryCollector(
	listings store.Listings,
	log logger.Logger,
	now func() time.Time,
	interval time.Duration,
	grace time.Duration,
	batchSize int,
) *ExpiryCollector {
	if interval <= 0 {
		interval = DefaultCollectInterval
	}
	if grace < 0 {
		grace = 0
	}
	if batchSize < 0 {
		batchSize = 0
	}
	if now == nil {
		now = time.Now
	}

	return &ExpiryCollector{
		store:     listings,
		logger:    log.Named("expiry_collector"),
		now:       now,
		interval:  interval,
		grace:     grace,
		batchSize: batchSize,
		stopCh:    make(chan struct{}),
	}
}

// Start runs a collection immediately, then every interval until Stop is
// called or ctx is done.
func (ec *ExpiryCollector) Start(ctx context.Context) error {
	if res := ec.Collect(ctx); !res.Success {
		ec.logger.Warn("initial expiry collection failed",
			logger.String("error", res.Error))
	}

	ticker := time.NewTicker(ec.interval)
	ec.wg.Add(1)
	go func() {
		defer ec.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ec.Collect(ctx)
			case <-ec.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the periodic loop and waits for a run in progress to finish,
// so the store can be closed right after. It is safe to call more than once.
func (ec *ExpiryCollector) Stop() {
	ec.stopOnce.Do(func() { close(ec.stopCh) })
	ec.wg.Wait()
}

// Collect performs one run: read every listing, find those past start+grace,
// delete them. Failures are reported in the result and never retried here.
func (ec *ExpiryCollector) Collect(ctx context.Context) Result {
	now := ec.now()
	started := time.Now()

	ec.logger.Info("starting cleanup of expired listings",
		logger.Time("now", now),
		logger.Duration("grace", ec.grace),
		logger.Int("batch_size", ec.batchSize))

	total, expired, err := ec.scan(ctx, now)
	if err != nil {
		return ec.fail(fmt.Errorf("fetch listings: %w", err))
	}

	ec.logger.Info("fetched listings", logger.Int("total", total))
	ec.logger.Info("found expired listings", logger.Int("expired", len(expired)))

	deleted := 0
	if len(expired) > 0 {
		deleted, err = ec.delete(ctx, expired)
		if err != nil {
			return ec.fail(fmt.Errorf("delete expired listings: %w", err))
		}
	}

	ec.logger.Info("cleanup of expired listings completed",
		logger.Int("expired", len(expired)),
		logger.Int("deleted", deleted),
		logger.Duration("took", time.Since(started)))

	return Result{
		Success:      true,
		DeletedCount: &deleted,
		Message:      fmt.Sprintf("Cleaned up %d expired listing(s)", deleted),
	}
}

// scan returns the number of listings seen and the IDs of the expired ones.
func (ec *ExpiryCollector) scan(ctx context.Context, now time.Time) (int, []string, error) {
	opts := store.ListOptions{OrderBy: store.OrderByID, Limit: ec.batchSize}
	total := 0
	var expiredIDs []string

	for {
		page, err := ec.store.List(ctx, opts)
		if err != nil {
			return 0, nil, err
		}
		total += len(page)

		_, expired := domain.Partition(page, now, ec.grace)
		for _, l := range expired {
			if _, err := domain.StartsAt(l, now.Location()); err != nil {
				ec.logger.Debug("collecting listing with malformed schedule",
					logger.String("listing_id", l.ID),
					logger.Error(err))
			}
			expiredIDs = append(expiredIDs, l.ID)
		}

		if ec.batchSize == 0 || len(page) < ec.batchSize {
			return total, expiredIDs, nil
		}
		opts.AfterID = page[len(page)-1].ID
	}
}

func (ec *ExpiryCollector) delete(ctx context.Context, ids []string) (int, error) {
	if ec.batchSize == 0 {
		return ec.store.DeleteByIDs(ctx, ids)
	}

	deleted := 0
	for start := 0; start < len(ids); start += ec.batchSize {
		end := min(start+ec.batchSize, len(ids))
		n, err := ec.store.DeleteByIDs(ctx, ids[start:end])
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

func (ec *ExpiryCollector) fail(err error) Result {
	ec.logger.Error("cleanup of expired listings failed", logger.Error(err))
	return Result{
		Success: false,
		Error:   err.Error(),
	}
}
