package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/partnerfinder/internal/gate"
)

// SessionStore keeps gate sessions as JSON values that expire with the
// session itself.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func (s *SessionStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Save stores a session until its expiry
func (s *SessionStore) Save(ctx context.Context, sess gate.Session) error {
	ttl := sess.ExpiresAt.Sub(s.clock())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, SessionKey(sess.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves a session by token
func (s *SessionStore) Load(ctx context.Context, token string) (gate.Session, error) {
	data, err := s.client.Get(ctx, SessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return gate.Session{}, gate.ErrSessionNotFound
		}
		return gate.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var sess gate.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return gate.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return sess, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, SessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
