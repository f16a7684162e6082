package driven

import (
	"context"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// CredentialStore persists encrypted provider tokens, one record per
// user+provider pair. Updates are atomic per record: a reader never observes
// an access token without its matching refresh token and expiry.
type CredentialStore interface {
	// Get retrieves the credential for a user and provider.
	// Returns domain.ErrNotFound if the user never completed the flow.
	Get(ctx context.Context, userID string, provider domain.Provider) (*domain.Credential, error)

	// Upsert writes the credential in a single atomic operation.
	Upsert(ctx context.Context, cred *domain.Credential) error

	// Delete removes the credential (explicit user disconnect).
	Delete(ctx context.Context, userID string, provider domain.Provider) error

	// ListByUser returns all credentials a user holds.
	ListByUser(ctx context.Context, userID string) ([]*domain.Credential, error)
}
