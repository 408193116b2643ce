package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

const readinessTimeout = 2 * time.Second

type componentStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz pings every configured dependency and answers 503 when any of them
// fails.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{
			Ready:      true,
			Components: make(map[string]componentStatus, len(d.Checks)),
		}

		for _, c := range d.Checks {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := c.Ping(ctx)
			cancel()

			if err != nil {
				d.Logger.Warn("readiness check failed",
					logger.String("component", c.Name),
					logger.Error(err))
				resp.Ready = false
				resp.Components[c.Name] = componentStatus{OK: false, Error: err.Error()}
				continue
			}
			resp.Components[c.Name] = componentStatus{OK: true}
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
