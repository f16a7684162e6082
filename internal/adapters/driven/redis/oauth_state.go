package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

const statePrefix = "oauth:state:"

// expiredStateGrace is how long a state entry survives in Redis past its
// logical expiry. Entries in the grace window are consumed and reported
// as expired rather than unknown; after the window Redis drops the key
// and the distinction is lost, which is acceptable for stale callbacks.
const expiredStateGrace = 10 * time.Minute

// OAuthStateStore implements driven.OAuthStateStore using Redis.
// GETDEL makes the single-use consume atomic without scripting.
type OAuthStateStore struct {
	client *redis.Client
}

// NewOAuthStateStore creates a new Redis-backed OAuth state store.
func NewOAuthStateStore(client *redis.Client) *OAuthStateStore {
	return &OAuthStateStore{client: client}
}

// Save stores a new OAuth state.
func (s *OAuthStateStore) Save(ctx context.Context, state *domain.OAuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}

	ttl := time.Until(state.ExpiresAt) + expiredStateGrace
	if err := s.client.Set(ctx, statePrefix+state.State, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}

	return nil
}

// GetAndDelete atomically retrieves and deletes the state. Concurrent
// consumers of the same state see exactly one non-nil result. Logically
// expired entries still in the grace window are returned so the caller
// can report expiry distinctly.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*domain.OAuthState, error) {
	data, err := s.client.GetDel(ctx, statePrefix+state).Bytes()
	if err == redis.Nil {
		return nil, nil // State not found or already consumed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	var entry domain.OAuthState
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}

	return &entry, nil
}

// Cleanup is a no-op: Redis TTLs reap state keys on their own.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	return nil
}
