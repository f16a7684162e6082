package domain

import "time"

// DefaultStateTTL is the lifetime of an OAuth state token.
const DefaultStateTTL = 5 * time.Minute

// OAuthState is a pending authorization flow entry. It maps a one-time,
// high-entropy state token back to the user who started the flow, guarding
// the redirect step against CSRF and replay.
type OAuthState struct {
	// State is the random token round-tripped through the provider.
	State string `json:"state"`

	// UserID is the user who initiated the flow.
	UserID string `json:"user_id"`

	// Provider is the platform the flow targets.
	Provider Provider `json:"provider"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt bounds the flow; a consumed entry past this instant is
	// reported as expired rather than validated.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the state is past its TTL.
func (s *OAuthState) IsExpired() bool {
	return !s.ExpiresAt.After(time.Now())
}
