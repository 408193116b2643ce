package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
	"github.com/MrSnakeDoc/partnerfinder/internal/store"
)

const maxListingBody = 16 << 10

// parseQuery reads the ?q= and ?level= filters.
func parseQuery(r *http.Request) (domain.Query, error) {
	q := domain.Query{Text: strings.TrimSpace(r.URL.Query().Get("q"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("level")); raw != "" {
		lvl, err := domain.ParseLevel(raw)
		if err != nil {
			return domain.Query{}, err
		}
		q.Level = lvl
	}
	return q, nil
}

// ListListings returns the listings that have not started yet, in schedule
// order, narrowed by the optional search filters.
func ListListings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		all, err := d.Listings.List(r.Context(), store.ListOptions{OrderBy: store.OrderBySchedule})
		if err != nil {
			d.Logger.Error("failed to list listings", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load listings")
			return
		}

		writeJSON(w, http.StatusOK, q.Filter(domain.ActiveOnly(all, d.Now())))
	}
}

// CreateListing validates a submission and stores it.
func CreateListing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n domain.NewListing
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxListingBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&n); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		n = n.Normalize()
		n.Location = d.Venues.Normalize(n.Location)
		if lvl, err := domain.ParseLevel(string(n.Level)); err == nil {
			n.Level = lvl
		}

		if err := n.Validate(); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid listing", Fields: verr.Fields})
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		l, err := d.Listings.Insert(r.Context(), n)
		if err != nil {
			d.Logger.Error("failed to insert listing", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save listing")
			return
		}

		d.Logger.Info("listing created",
			logger.String("listing_id", l.ID),
			logger.String("date", l.Date),
			logger.String("time", l.Time))
		writeJSON(w, http.StatusCreated, l)
	}
}

// DeleteListing removes one listing by ID.
func DeleteListing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		n, err := d.Listings.DeleteByIDs(r.Context(), []string{id})
		if err != nil {
			d.Logger.Error("failed to delete listing",
				logger.String("listing_id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete listing")
			return
		}
		if n == 0 {
			writeError(w, http.StatusNotFound, "listing not found")
			return
		}

		d.Logger.Info("listing deleted", logger.String("listing_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
