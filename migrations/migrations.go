// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// FS contains the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS

// Dialect is the goose dialect of the listing database.
const Dialect = "sqlite3"

// Run applies all pending migrations to the given database, reporting
// progress through log.
func Run(db *sql.DB, log logger.Logger) error {
	goose.SetBaseFS(FS)
	goose.SetLogger(NewGooseLogger(log))

	if err := goose.SetDialect(Dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
