package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

func newTestGate(t *testing.T, password string) (*Gate, *MemoryStore) {
	t.Helper()
	hash, err := HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	st := NewMemoryStore()
	g, err := New(hash, st, logger.Nop(), time.Hour)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	return g, st
}

func TestGateOpenCheckClose(t *testing.T) {
	ctx := context.Background()
	g, st := newTestGate(t, "slam")

	s, err := g.Open(ctx, "slam")
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if s.Token == "" {
		t.Fatal("empty session token")
	}
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != time.Hour {
		t.Errorf("session lifetime = %v, want 1h", got)
	}

	got, err := g.Check(ctx, s.Token)
	if err != nil {
		t.Fatalf("Check() = %v", err)
	}
	if got.Token != s.Token {
		t.Errorf("Check() token = %q, want %q", got.Token, s.Token)
	}

	if err := g.Close(ctx, s.Token); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if _, err := g.Check(ctx, s.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Check() after Close = %v, want ErrSessionNotFound", err)
	}
	if st.Len() != 0 {
		t.Errorf("store still holds %d sessions", st.Len())
	}
}

func TestGateWrongPassword(t *testing.T) {
	g, st := newTestGate(t, "slam")

	for _, pw := range []string{"", "Slam", "slam "} {
		if _, err := g.Open(context.Background(), pw); !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("Open(%q) = %v, want ErrInvalidPassword", pw, err)
		}
	}
	if st.Len() != 0 {
		t.Errorf("failed opens stored %d sessions", st.Len())
	}
}

func TestGateExpiredSession(t *testing.T) {
	ctx := context.Background()
	g, st := newTestGate(t, "slam")

	start := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return start }
	st.now = g.now

	s, err := g.Open(ctx, "slam")
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}

	later := start.Add(time.Hour)
	g.now = func() time.Time { return later }
	st.now = g.now

	if _, err := g.Check(ctx, s.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Check() on expired session = %v, want ErrSessionNotFound", err)
	}
}

func TestGateUnknownToken(t *testing.T) {
	g, _ := newTestGate(t, "slam")
	for _, tok := range []string{"", "not-a-token"} {
		if _, err := g.Check(context.Background(), tok); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Check(%q) = %v, want ErrSessionNotFound", tok, err)
		}
	}
	if err := g.Close(context.Background(), "not-a-token"); err != nil {
		t.Errorf("Close() on unknown token = %v", err)
	}
}

func TestNewRejectsBadHash(t *testing.T) {
	if _, err := New([]byte("plaintext"), NewMemoryStore(), logger.Nop(), 0); err == nil {
		t.Fatal("New() should reject a non-bcrypt hash")
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context should carry no session")
	}
	s := Session{Token: "abc"}
	got, ok := FromContext(WithSession(context.Background(), s))
	if !ok || got.Token != "abc" {
		t.Errorf("FromContext() = %+v, %v", got, ok)
	}
}
