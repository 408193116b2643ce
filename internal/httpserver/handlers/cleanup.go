package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// Cleanup runs the expiry collector once and reports its result: 200 on
// success, 500 with the error message otherwise.
func Cleanup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Logger.Info("manual cleanup triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))

		res := d.Collector.Collect(r.Context())

		status := http.StatusOK
		if !res.Success {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, res)
	}
}
