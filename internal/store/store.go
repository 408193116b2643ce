// Package store defines the listing persistence contract shared by the
// SQLite implementation and the change-publishing decorator.
package store

import (
	"context"

	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
)

// Order selects the ordering of a List call.
type Order int

const (
	// OrderBySchedule sorts by date then time ascending, the display order.
	OrderBySchedule Order = iota
	// OrderByCreated sorts by creation time, newest first.
	OrderByCreated
	// OrderByID sorts by ID ascending and supports keyset paging via AfterID.
	OrderByID
)

// ListOptions controls a List call.
type ListOptions struct {
	OrderBy Order
	// Limit caps the number of rows returned. Zero means no limit.
	Limit int
	// AfterID returns only rows with an ID greater than this one.
	// It is honoured only with OrderByID.
	AfterID string
}

// Listings is the persisted table of partner listings.
type Listings interface {
	List(ctx context.Context, opts ListOptions) ([]domain.Listing, error)
	Insert(ctx context.Context, n domain.NewListing) (domain.Listing, error)
	// DeleteByIDs removes the given listings and returns how many rows were
	// actually deleted. Unknown IDs are ignored.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
	Ping(ctx context.Context) error
}
