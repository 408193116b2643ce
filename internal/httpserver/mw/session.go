package mw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/partnerfinder/internal/gate"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// SessionCookie carries the gate session token.
const SessionCookie = "pf_session"

// SessionChecker resolves a session token.
type SessionChecker interface {
	Check(ctx context.Context, token string) (gate.Session, error)
}

// SessionToken returns the token from the session cookie or, failing that,
// from an "Authorization: Bearer" header.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession stores the caller's gate session in the request context.
// A missing or expired session gets 401; a failing session store gets 503 so
// clients do not send the user back to the password form.
func RequireSession(g SessionChecker, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := g.Check(r.Context(), SessionToken(r))
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(gate.WithSession(r.Context(), s)))
			case errors.Is(err, gate.ErrSessionNotFound):
				sessionError(w, http.StatusUnauthorized, "unauthorized")
			default:
				log.Warn("session lookup failed", logger.Error(err))
				sessionError(w, http.StatusServiceUnavailable, "session store unavailable")
			}
		})
	}
}

func sessionError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
