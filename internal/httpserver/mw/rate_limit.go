package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/utils"
)

// RateLimitConfig sizes the per-client token bucket. Zero values fall back
// to a burst of one, one token per minute, a sweep every minute and a
// 15 minute idle TTL.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	// MaxEntries forces a sweep of idle clients once this many are tracked.
	MaxEntries    int
	SweepInterval time.Duration
	IdleTTL       time.Duration
	TrustProxy    bool
	Now           func() time.Time
}

type tokens struct {
	left     float64
	refilled time.Time
}

// ipLimiter keeps one bucket per client IP. Buckets are small and touched
// once per request, so a single lock guards them all.
type ipLimiter struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64

	mu        sync.Mutex
	clients   map[string]*tokens
	lastSweep time.Time
}

func newIPLimiter(cfg RateLimitConfig) *ipLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillPerIPPerMin < 1 {
		cfg.RefillPerIPPerMin = 1
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ipLimiter{
		cfg:       cfg,
		perSec:    float64(cfg.RefillPerIPPerMin) / 60,
		capacity:  float64(cfg.Burst),
		clients:   make(map[string]*tokens),
		lastSweep: cfg.Now(),
	}
}

// take spends one token for ip. When none is left it reports how many whole
// seconds until the next one.
func (l *ipLimiter) take(ip string, now time.Time) (allowed bool, left int, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	t, found := l.clients[ip]
	if !found {
		t = &tokens{left: l.capacity, refilled: now}
		l.clients[ip] = t
	}
	if dt := now.Sub(t.refilled).Seconds(); dt > 0 {
		t.left = math.Min(l.capacity, t.left+dt*l.perSec)
		t.refilled = now
	}

	if t.left < 1 {
		wait := int(math.Ceil((1 - t.left) / l.perSec))
		return false, 0, max(wait, 1)
	}
	t.left--
	return true, int(t.left), 0
}

// sweep forgets clients idle for IdleTTL, at most once per SweepInterval
// unless the table is full.
func (l *ipLimiter) sweep(now time.Time) {
	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if !full && now.Sub(l.lastSweep) < l.cfg.SweepInterval {
		return
	}
	for ip, t := range l.clients {
		if now.Sub(t.refilled) > l.cfg.IdleTTL {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

// RateLimit applies a per-client-IP token bucket. Rejected requests get 429
// with Retry-After and a JSON error body.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newIPLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, l.cfg.TrustProxy)
			allowed, left, retryAfter := l.take(ip, l.cfg.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !allowed {
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many attempts, retry later"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
