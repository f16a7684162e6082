package driven

import (
	"context"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// OAuthStateStore manages OAuth flow state for CSRF protection.
// States are single-use and expire after a short period.
type OAuthStateStore interface {
	// Save stores a new OAuth state.
	Save(ctx context.Context, state *domain.OAuthState) error

	// GetAndDelete atomically retrieves and deletes the state. Check and
	// delete must be a single indivisible operation so that two concurrent
	// consumers of the same state see exactly one non-nil result.
	// Returns nil, nil if the state doesn't exist. Expired entries are
	// still returned (and removed) so callers can report expiry distinctly.
	GetAndDelete(ctx context.Context, state string) (*domain.OAuthState, error)

	// Cleanup removes expired states.
	Cleanup(ctx context.Context) error
}
