package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// ProviderRegistration pairs a provider's configuration with the exchanger
// that speaks its token-endpoint wire format.
type ProviderRegistration struct {
	Config    *domain.ProviderConfig
	Exchanger driven.TokenExchanger
}

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// UserStore resolves user records.
	UserStore driven.UserStore

	// CredentialStore persists encrypted provider tokens.
	CredentialStore driven.CredentialStore

	// StateStore manages one-time OAuth flow state.
	StateStore driven.OAuthStateStore

	// Cipher encrypts tokens before they reach the credential store.
	Cipher driven.TokenCipher

	// Providers maps each supported provider to its config and exchanger.
	Providers map[domain.Provider]ProviderRegistration

	// StateTTL bounds a pending flow. Defaults to domain.DefaultStateTTL.
	StateTTL time.Duration

	// Logger receives structured flow events. Defaults to slog.Default().
	Logger *slog.Logger
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	userStore       driven.UserStore
	credentialStore driven.CredentialStore
	stateStore      driven.OAuthStateStore
	cipher          driven.TokenCipher
	providers       map[domain.Provider]ProviderRegistration
	stateTTL        time.Duration
	logger          *slog.Logger

	// refreshGroup collapses concurrent refreshes for the same user and
	// provider into one outbound token-endpoint call.
	refreshGroup singleflight.Group
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = domain.DefaultStateTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &oauthService{
		userStore:       cfg.UserStore,
		credentialStore: cfg.CredentialStore,
		stateStore:      cfg.StateStore,
		cipher:          cfg.Cipher,
		providers:       cfg.Providers,
		stateTTL:        ttl,
		logger:          logger,
	}
}

// BuildAuthorizationURL starts an OAuth flow: it validates the provider
// configuration, mints a one-time state token, and constructs the consent
// URL. Config validation happens first so a failure never orphans a state
// entry.
func (s *oauthService) BuildAuthorizationURL(ctx context.Context, userID string, provider domain.Provider) (*driving.AuthorizeResponse, error) {
	entry, ok := s.providers[provider]
	if !ok {
		return nil, &domain.ConfigError{Provider: provider, Missing: []string{"provider registration"}}
	}
	if err := entry.Config.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userStore.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapOAuthError("load user", err)
	}

	// Expired entries are reaped lazily; a failure here never blocks a flow.
	if err := s.stateStore.Cleanup(ctx); err != nil {
		s.logger.Warn("oauth state cleanup failed", "error", err)
	}

	state, err := generateStateToken()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.stateTTL)
	oauthState := &domain.OAuthState{
		State:     state,
		UserID:    userID,
		Provider:  provider,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.stateStore.Save(ctx, oauthState); err != nil {
		return nil, domain.WrapOAuthError("save oauth state", err)
	}

	authURL, err := buildConsentURL(entry.Config, state)
	if err != nil {
		return nil, err
	}

	s.logger.Info("oauth flow started", "provider", provider, "user_id", userID)

	return &driving.AuthorizeResponse{
		AuthorizationURL: authURL,
		State:            state,
		ExpiresAt:        expiresAt.Format(time.RFC3339),
	}, nil
}

// CompleteAuthorization handles the provider redirect. It consumes the state
// (single-use), exchanges the code for tokens, and persists them encrypted.
func (s *oauthService) CompleteAuthorization(ctx context.Context, req driving.CallbackRequest) (*domain.CredentialSummary, error) {
	if req.Error != "" {
		msg := req.ErrorDescription
		if msg == "" {
			msg = req.Error
		}
		return nil, domain.NewOAuthError(msg)
	}

	oauthState, err := s.stateStore.GetAndDelete(ctx, req.State)
	if err != nil {
		return nil, domain.WrapOAuthError("oauth state lookup failed", err)
	}
	if oauthState == nil {
		return nil, domain.ErrInvalidState
	}
	if oauthState.IsExpired() {
		return nil, domain.ErrStateExpired
	}

	entry, ok := s.providers[oauthState.Provider]
	if !ok {
		return nil, &domain.ConfigError{Provider: oauthState.Provider, Missing: []string{"provider registration"}}
	}

	tokens, err := entry.Exchanger.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	cred, err := s.saveTokens(ctx, oauthState.UserID, oauthState.Provider, tokens)
	if err != nil {
		return nil, err
	}

	s.logger.Info("oauth flow completed", "provider", oauthState.Provider, "user_id", oauthState.UserID)

	return cred.ToSummary(), nil
}

// GetValidTokens returns decrypted tokens for a user, refreshing first when
// expiry falls inside the safety margin. Refreshed tokens are persisted
// before the call returns.
func (s *oauthService) GetValidTokens(ctx context.Context, userID string, provider domain.Provider) (*domain.TokenPair, error) {
	entry, ok := s.providers[provider]
	if !ok {
		return nil, &domain.ConfigError{Provider: provider, Missing: []string{"provider registration"}}
	}

	if _, err := s.userStore.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapOAuthError("load user", err)
	}

	cred, err := s.credentialStore.Get(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewOAuthError(fmt.Sprintf("No %s credentials found for user", provider.DisplayName()))
		}
		return nil, domain.WrapOAuthError("load credentials", err)
	}

	pair, err := s.decryptCredential(cred, provider)
	if err != nil {
		return nil, err
	}

	if !cred.NeedsRefresh() {
		return pair, nil
	}

	// Concurrent readers of a stale credential share one refresh.
	key := userID + "/" + string(provider)
	v, err, _ := s.refreshGroup.Do(key, func() (any, error) {
		// The in-flight exchange and its persistence must run to
		// completion even if the enclosing request is cancelled, so a
		// token update is never half-applied.
		return s.refresh(context.WithoutCancel(ctx), entry, cred, pair)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.TokenPair), nil
}

// GetValidAccessToken returns a valid access token for provider API calls.
func (s *oauthService) GetValidAccessToken(ctx context.Context, userID string, provider domain.Provider) (string, error) {
	pair, err := s.GetValidTokens(ctx, userID, provider)
	if err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// Status reports the connection state for a user and provider.
func (s *oauthService) Status(ctx context.Context, userID string, provider domain.Provider) (*domain.CredentialSummary, error) {
	if _, err := s.userStore.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapOAuthError("load user", err)
	}

	cred, err := s.credentialStore.Get(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CredentialSummary{Provider: provider, Connected: false}, nil
		}
		return nil, domain.WrapOAuthError("load credentials", err)
	}
	return cred.ToSummary(), nil
}

// Disconnect removes the stored credential for a provider. The user must
// complete a fresh authorization flow to reconnect.
func (s *oauthService) Disconnect(ctx context.Context, userID string, provider domain.Provider) error {
	if _, err := s.userStore.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return domain.WrapOAuthError("load user", err)
	}

	if err := s.credentialStore.Delete(ctx, userID, provider); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewOAuthError(fmt.Sprintf("No %s credentials found for user", provider.DisplayName()))
		}
		return domain.WrapOAuthError("delete credentials", err)
	}

	s.logger.Info("provider disconnected", "provider", provider, "user_id", userID)
	return nil
}

// refresh drives one token refresh and persists the result. If the provider
// omits a new refresh token, the previous one is kept.
func (s *oauthService) refresh(ctx context.Context, entry ProviderRegistration, cred *domain.Credential, current *domain.TokenPair) (*domain.TokenPair, error) {
	tokens, err := entry.Exchanger.ExchangeRefreshToken(ctx, current.RefreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed",
			"provider", cred.Provider, "user_id", cred.UserID, "error", err)
		return nil, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = current.RefreshToken
	}

	updated, err := s.saveTokens(ctx, cred.UserID, cred.Provider, tokens)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens refreshed",
		"provider", cred.Provider, "user_id", cred.UserID, "expiry", updated.TokenExpiry)

	return &domain.TokenPair{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Expiry:       updated.TokenExpiry,
	}, nil
}

// saveTokens encrypts and persists an exchange result against a user. The
// credential row is written in one upsert so a partial pair is never
// observable.
func (s *oauthService) saveTokens(ctx context.Context, userID string, provider domain.Provider, tokens *domain.TokenSet) (*domain.Credential, error) {
	if _, err := s.userStore.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapOAuthError("load user", err)
	}

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return nil, domain.ErrMissingTokenData
	}

	accessCipher, err := s.cipher.EncryptToken(tokens.AccessToken)
	if err != nil {
		return nil, domain.WrapOAuthError("encrypt access token", err)
	}
	refreshCipher, err := s.cipher.EncryptToken(tokens.RefreshToken)
	if err != nil {
		return nil, domain.WrapOAuthError("encrypt refresh token", err)
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		UserID:             userID,
		Provider:           provider,
		AccessTokenCipher:  accessCipher,
		RefreshTokenCipher: refreshCipher,
		TokenExpiry:        now.Add(time.Duration(tokens.ExpiresIn) * time.Second),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	existing, err := s.credentialStore.Get(ctx, userID, provider)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.WrapOAuthError("load credentials", err)
	}
	if existing != nil {
		cred.CreatedAt = existing.CreatedAt
		cred.ProviderAccountID = existing.ProviderAccountID
	}
	if cred.ProviderAccountID == "" && tokens.ProviderAccountID != "" {
		cred.ProviderAccountID = tokens.ProviderAccountID
	}

	if err := s.credentialStore.Upsert(ctx, cred); err != nil {
		return nil, domain.WrapOAuthError("save tokens", err)
	}
	return cred, nil
}

// decryptCredential recovers the plaintext pair, mapping cipher failures to
// a re-authorization error.
func (s *oauthService) decryptCredential(cred *domain.Credential, provider domain.Provider) (*domain.TokenPair, error) {
	accessToken, err := s.cipher.DecryptToken(cred.AccessTokenCipher)
	if err != nil {
		return nil, domain.WrapOAuthError(
			fmt.Sprintf("Stored %s tokens unreadable, re-authorization required", provider.DisplayName()), err)
	}
	refreshToken, err := s.cipher.DecryptToken(cred.RefreshTokenCipher)
	if err != nil {
		return nil, domain.WrapOAuthError(
			fmt.Sprintf("Stored %s tokens unreadable, re-authorization required", provider.DisplayName()), err)
	}
	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       cred.TokenExpiry,
	}, nil
}

// buildConsentURL constructs the provider consent URL with the required
// query parameters plus the provider's fixed policy parameters.
func buildConsentURL(cfg *domain.ProviderConfig, state string) (string, error) {
	u, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return "", &domain.ConfigError{Provider: cfg.Provider, Missing: []string{"auth_url"}}
	}

	params := url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {cfg.RedirectURI},
		"response_type": {"code"},
		"scope":         {cfg.JoinedScopes()},
		"state":         {state},
	}
	for key, values := range cfg.ExtraAuthParams {
		for _, v := range values {
			params.Add(key, v)
		}
	}

	u.RawQuery = params.Encode()
	return u.String(), nil
}

// generateStateToken returns a URL-safe token with 256 bits of entropy.
func generateStateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
