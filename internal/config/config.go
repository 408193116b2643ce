package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout for non-streaming routes

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DatabasePath string         // SQLite file, or ":memory:"
	VenuesFile   string         // optional venues.yaml; empty = built-in venue list
	TimeZone     string         // IANA zone listing dates are written in ("Local" = process zone)
	Location     *time.Location // resolved TimeZone

	CleanupInterval  time.Duration // how often expired listings are purged (default: 1h)
	CleanupGrace     time.Duration // how long a listing survives past its start (default: 24h)
	CleanupBatchSize int           // rows per page during cleanup (0 = single read and delete)
	RefilterInterval time.Duration // how often live views drop started listings (default: 60s)

	// Gate
	GatePassword      string        // shared plaintext password
	GatePasswordHash  string        // bcrypt hash, takes precedence over GatePassword
	SessionTTL        time.Duration // session lifetime (default: 12h)
	SessionRateBurst  int           // password attempts allowed in a burst per IP
	SessionRatePerMin int           // password attempts refilled per IP per minute
	CORSOrigin        string        // Access-Control-Allow-Origin value

	// Redis (optional, empty RedisAddr = in-process change feed and sessions)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict cleanup/healthz/readyz to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("PF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("PF_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("PF_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("PF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PF_PRETTY_LOG", true),

		// Storage
		DatabasePath: getenv("PF_DATABASE_PATH", "./data/partners.db"),
		VenuesFile:   getenv("PF_VENUES_FILE", ""),
		TimeZone:     getenv("PF_TIMEZONE", "Local"),

		// Expiry
		CleanupInterval:  mustDuration("PF_CLEANUP_INTERVAL", time.Hour),
		CleanupGrace:     mustDuration("PF_CLEANUP_GRACE", 24*time.Hour),
		CleanupBatchSize: getenvInt("PF_CLEANUP_BATCH_SIZE", 0),
		RefilterInterval: mustDuration("PF_REFILTER_INTERVAL", 60*time.Second),

		// Gate
		GatePassword:      os.Getenv("PF_GATE_PASSWORD"),
		GatePasswordHash:  os.Getenv("PF_GATE_PASSWORD_HASH"),
		SessionTTL:        mustDuration("PF_SESSION_TTL", 12*time.Hour),
		SessionRateBurst:  getenvInt("PF_SESSION_RATE_BURST", 5),
		SessionRatePerMin: getenvInt("PF_SESSION_RATE_PER_MIN", 10),
		CORSOrigin:        getenv("PF_CORS_ORIGIN", "*"),

		// Redis settings
		RedisAddr:             getenv("PF_REDIS_ADDR", ""),
		RedisUser:             getenv("PF_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("PF_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("PF_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("PF_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("PF_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("PF_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("PF_TRUST_PROXY", false),
	}

	if cfg.GatePassword == "" && cfg.GatePasswordHash == "" {
		panic("❌ FATAL: one of PF_GATE_PASSWORD or PF_GATE_PASSWORD_HASH must be set")
	}

	cfg.Location = mustLocation("PF_TIMEZONE", cfg.TimeZone)

	// Validate Redis password configuration
	if cfg.RedisEnabled() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: PF_REDIS_PASSWORD is required when PF_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.GatePassword = "***REDACTED***"
		cfgCopy.GatePasswordHash = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustLocation resolves an IANA zone name. An unknown zone is fatal: listing
// expiry would silently shift by hours.
func mustLocation(key, name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s (%v)", key, name, err))
	}
	return loc
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
