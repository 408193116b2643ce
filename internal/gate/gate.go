// Package gate guards the application behind a single shared password.
//
// A successful Open hands out an opaque session token; every guarded request
// presents it and is checked against the session store.
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// DefaultSessionTTL is how long a session stays valid after Open.
const DefaultSessionTTL = 12 * time.Hour

var (
	ErrInvalidPassword = errors.New("gate: invalid password")
	ErrSessionNotFound = errors.New("gate: session not found")
)

// Session is one unlocked client.
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Store persists sessions by token.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Load returns ErrSessionNotFound for unknown or expired tokens.
	Load(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// Gate checks the shared password and manages sessions.
type Gate struct {
	hash   []byte
	store  Store
	logger logger.Logger
	ttl    time.Duration
	now    func() time.Time
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash gate password: %w", err)
	}
	return h, nil
}

// New creates a gate that accepts the password matching hash.
func New(hash []byte, store Store, log logger.Logger, ttl time.Duration) (*Gate, error) {
	if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("gate password hash: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Gate{
		hash:   hash,
		store:  store,
		logger: log.Named("gate"),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Open starts a session when password is correct.
func (g *Gate) Open(ctx context.Context, password string) (Session, error) {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Session{}, ErrInvalidPassword
		}
		return Session{}, fmt.Errorf("compare gate password: %w", err)
	}

	now := g.now().UTC()
	s := Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(g.ttl),
	}
	if err := g.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	g.logger.Debug("session opened", logger.Time("expires_at", s.ExpiresAt))
	return s, nil
}

// Check returns the live session for token.
func (g *Gate) Check(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrSessionNotFound
	}
	s, err := g.store.Load(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(g.now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Close ends the session. Closing an unknown token is not an error.
func (g *Gate) Close(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := g.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	g.logger.Debug("session closed")
	return nil
}

// TTL returns the lifetime of new sessions.
func (g *Gate) TTL() time.Duration { return g.ttl }

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
