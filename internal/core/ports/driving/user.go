package driving

import (
	"context"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// UserService manages user accounts
type UserService interface {
	// Register creates a new user account
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// Delete deletes a user
	Delete(ctx context.Context, id string) error
}
