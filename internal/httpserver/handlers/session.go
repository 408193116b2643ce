package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/partnerfinder/internal/gate"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/mw"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

type openSessionRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OpenSession exchanges the shared password for a session cookie.
func OpenSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openSessionRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		s, err := d.Gate.Open(r.Context(), req.Password)
		if err != nil {
			if errors.Is(err, gate.ErrInvalidPassword) {
				d.Logger.Info("rejected gate password",
					logger.String("remote_ip", r.RemoteAddr))
				writeError(w, http.StatusUnauthorized, "incorrect password")
				return
			}
			d.Logger.Error("failed to open session", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to open session")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     mw.SessionCookie,
			Value:    s.Token,
			Path:     "/",
			Expires:  s.ExpiresAt,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusCreated, sessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt})
	}
}

// CloseSession ends the caller's session and clears the cookie.
func CloseSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := gate.FromContext(r.Context())
		if err := d.Gate.Close(r.Context(), s.Token); err != nil {
			d.Logger.Error("failed to close session", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to close session")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     mw.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
