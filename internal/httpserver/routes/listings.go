package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/mw"
)

func init() {
	Register(registerListings)
	RegisterStream(registerListingStream)
}

func registerListings(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RequireSession(d.Gate, d.Logger))
	api.Get("/api/listings", handlers.ListListings(d))
	api.Post("/api/listings", handlers.CreateListing(d))
	api.Delete("/api/listings/{id}", handlers.DeleteListing(d))
	api.Get("/api/options", handlers.Options(d))
}

func registerListingStream(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RequireSession(d.Gate, d.Logger)).
		Get("/api/listings/stream", handlers.StreamListings(d))
}
