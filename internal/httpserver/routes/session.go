package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/mw"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	host := mw.EnforceHost(d.AllowedHosts, d.Logger)
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.SessionRateBurst,
		RefillPerIPPerMin: d.SessionRatePer,
		MaxEntries:        10_000,
		TrustProxy:        d.TrustProxy,
	})

	r.With(host, limit).Post("/api/session", handlers.OpenSession(d))
	r.With(host, mw.RequireSession(d.Gate, d.Logger)).Delete("/api/session", handlers.CloseSession(d))
}
