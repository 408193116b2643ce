package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/mw"
)

func init() { Register(registerCleanup) }

func registerCleanup(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Post("/api/cleanup", handlers.Cleanup(d))
}
