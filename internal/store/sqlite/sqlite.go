// Package sqlite implements the listing store on top of SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
	"github.com/MrSnakeDoc/partnerfinder/migrations"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// maxParams keeps IN lists under SQLite's host parameter limit.
const maxParams = 500

const selectColumns = `SELECT id, name, email, location, date, time, level, notes, event_link, created_at
	 FROM partner_listings`

// Store implements store.Listings backed by a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Listings = (*Store)(nil)

// Open opens a SQLite database at dsn and runs pending migrations, logging
// their progress to log.
func Open(dsn string, log logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Insert persists a new listing and returns it with ID and CreatedAt set.
// The submission is stored as given; validation happens before this call.
func (s *Store) Insert(ctx context.Context, n domain.NewListing) (domain.Listing, error) {
	created := s.now().UTC()
	l := domain.Listing{
		ID:        uuid.NewString(),
		Name:      n.Name,
		Email:     n.Email,
		Location:  n.Location,
		Date:      n.Date,
		Time:      n.Time,
		Level:     n.Level,
		Notes:     n.Notes,
		EventLink: n.EventLink,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO partner_listings (id, name, email, location, date, time, level, notes, event_link, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Email, l.Location, l.Date, l.Time, string(l.Level), l.Notes, l.EventLink,
		created.Format(timeLayout),
	)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("insert listing: %w", err)
	}

	l.CreatedAt, _ = time.Parse(timeLayout, created.Format(timeLayout))
	return l, nil
}

// List returns listings in the requested order. Expired rows are included;
// callers apply the expiry filter themselves.
func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]domain.Listing, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(selectColumns)

	switch opts.OrderBy {
	case store.OrderByCreated:
		query.WriteString(" ORDER BY created_at DESC, id")
	case store.OrderByID:
		if opts.AfterID != "" {
			query.WriteString(" WHERE id > ?")
			args = append(args, opts.AfterID)
		}
		query.WriteString(" ORDER BY id")
	default:
		query.WriteString(" ORDER BY date, time, created_at")
	}

	if opts.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

// DeleteByIDs removes the given listings in a single transaction.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	total := 0
	for start := 0; start < len(ids); start += maxParams {
		end := min(start+maxParams, len(ids))
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM partner_listings WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return 0, fmt.Errorf("delete listings: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		total += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return total, nil
}

func scanListing(rows *sql.Rows) (domain.Listing, error) {
	var (
		l          domain.Listing
		level      string
		createdStr string
	)
	if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Location, &l.Date, &l.Time,
		&level, &l.Notes, &l.EventLink, &createdStr); err != nil {
		return domain.Listing{}, fmt.Errorf("scan listing: %w", err)
	}
	l.Level = domain.Level(level)
	l.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	return l, nil
}
