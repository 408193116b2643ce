package migrations

import (
	"database/sql"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunLogsThroughApplicationLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	db := openMemory(t)

	if err := Run(db, logger.FromZap(zap.New(core))); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	entries := logs.FilterLoggerName("migrations").All()
	if len(entries) == 0 {
		t.Fatal("no migration progress reached the application logger")
	}
	migrated := false
	for _, e := range entries {
		if strings.HasSuffix(e.Message, "\n") {
			t.Errorf("message %q keeps its trailing newline", e.Message)
		}
		if strings.Contains(e.Message, "successfully migrated") {
			migrated = true
		}
	}
	if !migrated {
		t.Errorf("missing completion message in %d entries", len(entries))
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM partner_listings`).Scan(&n); err != nil {
		t.Fatalf("partner_listings not created: %v", err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := openMemory(t)
	for i := 0; i < 2; i++ {
		if err := Run(db, logger.Nop()); err != nil {
			t.Fatalf("Run() #%d = %v", i+1, err)
		}
	}
}

func TestGooseLoggerPrintf(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewGooseLogger(logger.FromZap(zap.New(core))).Printf("OK   %s (%dms)\n", "00001_create_partner_listings.sql", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got, want := entries[0].Message, "OK   00001_create_partner_listings.sql (3ms)"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("Level = %v, want info", entries[0].Level)
	}
}
