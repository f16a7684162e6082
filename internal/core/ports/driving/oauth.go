package driving

import (
	"context"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// OAuthService drives the calendar provider OAuth lifecycle: starting the
// consent flow, completing the redirect, and serving valid tokens to
// calendar clients with transparent refresh.
type OAuthService interface {
	// BuildAuthorizationURL starts a flow for a user: it mints a one-time
	// state token and returns the provider consent URL.
	// Fails with *domain.ConfigError before any state is issued if the
	// provider configuration is incomplete.
	BuildAuthorizationURL(ctx context.Context, userID string, provider domain.Provider) (*AuthorizeResponse, error)

	// CompleteAuthorization handles the provider redirect: validates and
	// consumes the state, exchanges the code for tokens, and persists them
	// encrypted against the initiating user.
	CompleteAuthorization(ctx context.Context, req CallbackRequest) (*domain.CredentialSummary, error)

	// GetValidTokens returns decrypted tokens for a user, refreshing and
	// re-persisting them first when expiry is inside the safety margin.
	GetValidTokens(ctx context.Context, userID string, provider domain.Provider) (*domain.TokenPair, error)

	// GetValidAccessToken is the narrow boundary calendar clients call
	// before each provider API request.
	GetValidAccessToken(ctx context.Context, userID string, provider domain.Provider) (string, error)

	// Status reports a user's connection state for a provider without
	// exposing token material.
	Status(ctx context.Context, userID string, provider domain.Provider) (*domain.CredentialSummary, error)

	// Disconnect removes a user's stored credential for a provider.
	Disconnect(ctx context.Context, userID string, provider domain.Provider) error
}

// AuthorizeResponse contains the consent URL and state for a started flow.
// @Description Response containing the OAuth authorization URL
type AuthorizeResponse struct {
	// AuthorizationURL is the URL to redirect the user to for consent.
	AuthorizationURL string `json:"authorization_url" example:"https://accounts.google.com/o/oauth2/v2/auth?client_id=..."`

	// State is the CSRF token that will be returned in the callback.
	State string `json:"state" example:"abc123xyz"`

	// ExpiresAt is when the authorization state expires.
	ExpiresAt string `json:"expires_at" example:"2024-01-15T10:05:00Z"`
}

// CallbackRequest represents the OAuth callback from the provider.
// @Description OAuth callback parameters from provider redirect
type CallbackRequest struct {
	// Code is the authorization code from the provider.
	Code string `json:"code" example:"4/0AbCdEf"`

	// State is the CSRF token returned by the provider.
	State string `json:"state" example:"abc123xyz"`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty" example:"access_denied"`

	// ErrorDescription provides details about the error.
	ErrorDescription string `json:"error_description,omitempty" example:"The user denied access"`
}
