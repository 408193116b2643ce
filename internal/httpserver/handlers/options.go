package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/partnerfinder/internal/domain"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
)

type optionsResponse struct {
	Venues    []string       `json:"venues"`
	Levels    []domain.Level `json:"levels"`
	TimeSlots []string       `json:"time_slots"`
}

// Options lists the choices offered by the listing form.
func Options(d deps.Deps) http.HandlerFunc {
	resp := optionsResponse{
		Venues:    d.Venues.Names(),
		Levels:    domain.Levels,
		TimeSlots: domain.TimeSlots(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
