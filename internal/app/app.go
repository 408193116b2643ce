package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/partnerfinder/internal/changefeed"
	"github.com/MrSnakeDoc/partnerfinder/internal/config"
	"github.com/MrSnakeDoc/partnerfinder/internal/gate"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/redis"
	"github.com/MrSnakeDoc/partnerfinder/internal/scheduler"
	"github.com/MrSnakeDoc/partnerfinder/internal/sources/venues"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
	"github.com/MrSnakeDoc/partnerfinder/internal/store/sqlite"
	redisstore "github.com/MrSnakeDoc/partnerfinder/internal/store/redis"
	"github.com/MrSnakeDoc/partnerfinder/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	db          *sqlite.Store
	redisClient *goredis.Client
	feed        changefeed.Feed
	collector   *scheduler.ExpiryCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	db, err := openDatabase(cfg.DatabasePath, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("database ready", logger.String("path", cfg.DatabasePath))

	catalog, err := venues.Load(cfg.VenuesFile)
	if err != nil {
		loggerClient.Errorf("Failed to load venues: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("venues loaded", logger.Int("count", len(catalog.Names())))

	checks := []deps.Check{{Name: "sqlite", Ping: db.Ping}}

	// Without Redis the change feed and sessions live in this process only.
	var (
		redisClient *goredis.Client
		feed        changefeed.Feed
		sessions    gate.Store
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			_ = db.Close()
			os.Exit(1)
		}
		rs := redisstore.NewStore(redisClient)
		feed = rs.NewChangeFeed(loggerClient, changefeed.DefaultBuffer)
		sessions = rs.Sessions()
		checks = append(checks, deps.Check{Name: "redis", Ping: rs.Ping})
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Info("redis not configured, using in-process change feed and sessions")
		feed = changefeed.NewBroker(changefeed.DefaultBuffer)
		sessions = gate.NewMemoryStore()
	}

	hash, err := gatePasswordHash(cfg)
	if err != nil {
		loggerClient.Errorf("Invalid gate password: %v", err)
		os.Exit(1)
	}
	g, err := gate.New(hash, sessions, loggerClient, cfg.SessionTTL)
	if err != nil {
		loggerClient.Errorf("Invalid gate password hash: %v", err)
		os.Exit(1)
	}

	listings := store.NewObserved(db, feed, loggerClient)

	now := func() time.Time { return time.Now().In(cfg.Location) }

	collector := scheduler.NewExpiryCollector(
		listings,
		loggerClient,
		now,
		cfg.CleanupInterval,
		cfg.CleanupGrace,
		cfg.CleanupBatchSize,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		Location:         cfg.Location,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		CORSOrigin:       cfg.CORSOrigin,
		RequestTimeout:   cfg.RequestTimeout,
		SessionRateBurst: cfg.SessionRateBurst,
		SessionRatePer:   cfg.SessionRatePerMin,
		RefilterInterval: cfg.RefilterInterval,
		Listings:         listings,
		Feed:             feed,
		Collector:        collector,
		Gate:             g,
		Venues:           catalog,
		Checks:           checks,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		db:          db,
		redisClient: redisClient,
		feed:        feed,
		collector:   collector,
	}
}

// openDatabase creates the parent directory of a file database before
// opening it.
func openDatabase(path string, log logger.Logger) (*sqlite.Store, error) {
	if !strings.Contains(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return sqlite.Open(path, log)
}

// gatePasswordHash prefers a configured bcrypt hash over hashing the
// plaintext password at startup.
func gatePasswordHash(cfg *config.Config) ([]byte, error) {
	if cfg.GatePasswordHash != "" {
		return []byte(cfg.GatePasswordHash), nil
	}
	return gate.HashPassword(cfg.GatePassword, 0)
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting partnerfinder v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Debug(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start expiry collector (runs once now, then periodically)
	if err := a.collector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start expiry collector: %w", err)
	}
	a.logger.Info("expiry collector started",
		logger.Duration("interval", a.cfg.CleanupInterval),
		logger.Duration("grace", a.cfg.CleanupGrace),
		logger.String("timezone", a.cfg.Location.String()))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// Waits for a running cleanup so the database can be closed below.
	a.collector.Stop()

	if err := a.feed.Close(); err != nil {
		a.logger.Warnf("failed to close change feed: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	} else {
		a.logger.Info("✅ Database closed cleanly")
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ partnerfinder stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
