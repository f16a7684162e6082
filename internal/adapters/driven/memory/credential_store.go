package memory

import (
	"context"
	"sync"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

type credentialKey struct {
	userID   string
	provider domain.Provider
}

// CredentialStore keeps encrypted provider credentials in a mutex-guarded
// map, one entry per user+provider. Writes replace the whole entry, so a
// partial token pair is never observable.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[credentialKey]*domain.Credential
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: make(map[credentialKey]*domain.Credential)}
}

// Get retrieves the credential for a user and provider.
func (s *CredentialStore) Get(ctx context.Context, userID string, provider domain.Provider) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[credentialKey{userID, provider}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

// Upsert writes the credential in one operation.
func (s *CredentialStore) Upsert(ctx context.Context, cred *domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.creds[credentialKey{cred.UserID, cred.Provider}] = &cp
	return nil
}

// Delete removes the credential.
func (s *CredentialStore) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := credentialKey{userID, provider}
	if _, ok := s.creds[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.creds, key)
	return nil
}

// ListByUser returns all credentials a user holds.
func (s *CredentialStore) ListByUser(ctx context.Context, userID string) ([]*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Credential
	for key, cred := range s.creds {
		if key.userID == userID {
			cp := *cred
			out = append(out, &cp)
		}
	}
	return out, nil
}
