package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/changefeed"
	"github.com/MrSnakeDoc/partnerfinder/internal/gate"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/scheduler"
	"github.com/MrSnakeDoc/partnerfinder/internal/sources/venues"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
)

// Collector runs one expiry collection on demand.
type Collector interface {
	Collect(ctx context.Context) scheduler.Result
}

// Check is one readiness probe, e.g. a database or Redis ping.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time      // for testing, defaults to time.Now
	Location         *time.Location        // zone listing dates are written in
	AllowedHosts     []string              // Host headers allowed to reach /api
	AllowedCIDRS     []string              // IPs allowed to access cleanup, healthz and readyz
	TrustProxy       bool                  // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigin       string                // Access-Control-Allow-Origin value
	RequestTimeout   time.Duration         // per-request timeout, not applied to streams
	SessionRateBurst int                   // password attempts per IP in a burst
	SessionRatePer   int                   // password attempts refilled per IP per minute
	RefilterInterval time.Duration         // how often live views drop started listings
	Listings         store.Listings        // listing table, publishing changes on write
	Feed             changefeed.Subscriber // listing change stream for live views
	Collector        Collector             // expiry collector for POST /api/cleanup
	Gate             *gate.Gate            // shared-password sessions
	Venues           *venues.Catalog       // known venues for normalisation and options
	Checks           []Check               // readiness probes
}

// Now returns the current time in the listing time zone.
func (d Deps) Now() time.Time {
	now := time.Now
	if d.TimeNow != nil {
		now = d.TimeNow
	}
	if d.Location != nil {
		return now().In(d.Location)
	}
	return now()
}
