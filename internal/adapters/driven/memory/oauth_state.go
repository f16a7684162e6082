// Package memory provides in-memory implementations of the driven storage
// ports. They are selected by dependency injection for tests and for
// infrastructure-free development; losing their contents only means a user
// restarts an OAuth flow or logs in again.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
)

// Ensure OAuthStateStore implements the interface.
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

// OAuthStateStore keeps pending OAuth states in a mutex-guarded map. Each
// instance is owned by whoever constructs it; there is no package-level
// state.
type OAuthStateStore struct {
	mu     sync.Mutex
	states map[string]*domain.OAuthState
}

// NewOAuthStateStore creates an empty in-memory state store.
func NewOAuthStateStore() *OAuthStateStore {
	return &OAuthStateStore{
		states: make(map[string]*domain.OAuthState),
	}
}

// Save stores a new OAuth state.
func (s *OAuthStateStore) Save(ctx context.Context, state *domain.OAuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.states[state.State] = &cp
	return nil
}

// GetAndDelete removes and returns the state. Lookup and removal happen
// under one lock acquisition, so two concurrent consumers of the same state
// see exactly one non-nil result.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*domain.OAuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.states[state]
	if !ok {
		return nil, nil
	}
	delete(s.states, state)
	return entry, nil
}

// Cleanup removes expired states.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for key, entry := range s.states {
		if !entry.ExpiresAt.After(now) {
			delete(s.states, key)
		}
	}
	return nil
}
