package driven

import (
	"context"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// TokenExchanger converts an authorization code or refresh token into a
// fresh token pair by calling one provider's token endpoint. Failures are
// always *domain.OAuthError; raw transport errors never cross this boundary.
type TokenExchanger interface {
	// ExchangeCode swaps an authorization code for tokens
	// (grant_type=authorization_code).
	ExchangeCode(ctx context.Context, code string) (*domain.TokenSet, error)

	// ExchangeRefreshToken obtains a new access token
	// (grant_type=refresh_token). The response may omit a refresh token.
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (*domain.TokenSet, error)
}
