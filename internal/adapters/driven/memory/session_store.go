package memory

import (
	"context"
	"sync"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps sessions in a mutex-guarded map. Expired sessions are
// dropped lazily on read.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	byToken  map[string]string
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		byToken:  make(map[string]string),
	}
}

// Save stores a session.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	s.byToken[session.Token] = session.ID
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if session.IsExpired() {
		s.removeLocked(session)
		return nil, domain.ErrNotFound
	}
	cp := *session
	return &cp, nil
}

// GetByToken retrieves a session by token value.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	id, ok := s.byToken[token]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete deletes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil // Already deleted
	}
	s.removeLocked(session)
	return nil
}

// DeleteByToken deletes a session by token.
func (s *SessionStore) DeleteByToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil
	}
	if session, ok := s.sessions[id]; ok {
		s.removeLocked(session)
	}
	return nil
}

// DeleteByUser deletes all sessions for a user.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.UserID == userID {
			s.removeLocked(session)
		}
	}
	return nil
}

func (s *SessionStore) removeLocked(session *domain.Session) {
	delete(s.sessions, session.ID)
	delete(s.byToken, session.Token)
}
