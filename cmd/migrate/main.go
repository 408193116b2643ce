package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/migrations"
)

const usage = `Usage: migrate [-db path] <command>

Commands:
  up          Migrate to the latest version
  up-one      Migrate one version up
  down        Roll back one version
  status      Show migration status
  version     Show current version
  reset       Roll back all migrations
`

func main() {
	dbPath := flag.String("db", envOrDefault("PF_DATABASE_PATH", "./data/partners.db"), "path to sqlite database")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	log := logger.New(envOrDefault("PF_LOG_LEVEL", "info"), true)
	defer func() { _ = log.Sync() }()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatal("open database", logger.String("path", *dbPath), logger.Error(err))
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(migrations.NewGooseLogger(log))
	if err := goose.SetDialect(migrations.Dialect); err != nil {
		log.Fatal("set dialect", logger.Error(err))
	}

	cmd := args[0]
	switch cmd {
	case "up":
		err = goose.Up(db, ".")
	case "up-one":
		err = goose.UpByOne(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	default:
		log.Fatal("unknown command", logger.String("command", cmd))
	}

	if err != nil {
		log.Fatal("migration failed", logger.String("command", cmd), logger.Error(err))
	}
	log.Info("migration done", logger.String("command", cmd), logger.String("db", *dbPath))
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
