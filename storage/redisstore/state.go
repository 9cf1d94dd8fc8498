package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmsblog/blogapi/modules/auth"
)

const statePrefix = "oauth:state:"

// StateStore persists one-time OAuth CSRF state values with a TTL.
type StateStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewStateStore creates a state store. States expire after ttl.
func NewStateStore(client redis.UniversalClient, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{client: client, ttl: ttl}
}

// Save stores the state until it is consumed or expires.
func (s *StateStore) Save(ctx context.Context, state string) error {
	if err := s.client.Set(ctx, statePrefix+state, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume removes the state, failing with ErrStateNotFound when it was
// never stored, already used, or expired. GETDEL makes lookup and
// invalidation a single atomic step.
func (s *StateStore) Consume(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, statePrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return auth.ErrStateNotFound
	}
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	return nil
}

var _ auth.StateStore = (*StateStore)(nil)
