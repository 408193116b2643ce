// Package redis holds the Redis-backed pieces used when several instances
// share one deployment: the listing change feed and the gate session store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store wraps a connected Redis client
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks that Redis answers
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Sessions returns the gate session store backed by this client
func (s *Store) Sessions() *SessionStore {
	return &SessionStore{client: s.client}
}
