// Package providers implements token exchange against external OAuth
// providers. One generic exchanger drives both Google and Microsoft; the
// per-provider constructors differ only in endpoints, consent parameters,
// and which id_token claim identifies the account.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
)

// Ensure Exchanger implements TokenExchanger
var _ driven.TokenExchanger = (*Exchanger)(nil)

// defaultTimeout bounds a single token endpoint call.
const defaultTimeout = 30 * time.Second

// defaultExpiresIn is assumed when a provider omits expires_in.
const defaultExpiresIn = 3600

// Exchanger calls one provider's token endpoint. All failures surface as
// *domain.OAuthError so callers never see raw transport errors.
type Exchanger struct {
	cfg    *domain.ProviderConfig
	client *http.Client

	// subjectClaim is the id_token claim naming the provider account
	// ("sub" for Google, "oid" for Microsoft). Empty disables extraction.
	subjectClaim string
}

// NewExchanger creates an exchanger for the given provider configuration.
func NewExchanger(cfg *domain.ProviderConfig, subjectClaim string) *Exchanger {
	return &Exchanger{
		cfg:          cfg,
		client:       &http.Client{Timeout: defaultTimeout},
		subjectClaim: subjectClaim,
	}
}

// tokenResponse is the provider token endpoint success body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	IDToken      string `json:"id_token"`
}

// errorResponse is the provider token endpoint failure body.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode swaps an authorization code for tokens.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (*domain.TokenSet, error) {
	params := url.Values{}
	params.Set("grant_type", "authorization_code")
	params.Set("code", code)
	params.Set("redirect_uri", e.cfg.RedirectURI)
	params.Set("client_id", e.cfg.ClientID)
	params.Set("client_secret", e.cfg.ClientSecret)

	set, err := e.exchange(ctx, params)
	if err != nil {
		return nil, err
	}

	// A first authorization must yield both tokens; without a refresh
	// token the grant cannot outlive the first access token.
	if set.AccessToken == "" || set.RefreshToken == "" {
		return nil, domain.ErrMissingTokenData
	}

	return set, nil
}

// ExchangeRefreshToken obtains a new access token. Providers may omit the
// refresh token from the response; the caller keeps the old one then.
func (e *Exchanger) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*domain.TokenSet, error) {
	params := url.Values{}
	params.Set("grant_type", "refresh_token")
	params.Set("refresh_token", refreshToken)
	params.Set("client_id", e.cfg.ClientID)
	params.Set("client_secret", e.cfg.ClientSecret)

	set, err := e.exchange(ctx, params)
	if err != nil {
		return nil, err
	}

	if set.AccessToken == "" {
		return nil, domain.ErrMissingTokenData
	}

	return set, nil
}

// exchange performs one token endpoint call and normalizes the result.
func (e *Exchanger) exchange(ctx context.Context, params url.Values) (*domain.TokenSet, error) {
	req, err := e.buildRequest(ctx, params)
	if err != nil {
		return nil, domain.WrapOAuthError(fmt.Sprintf("%s token request could not be built", e.cfg.Provider.DisplayName()), err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, domain.WrapOAuthError(fmt.Sprintf("%s token request failed", e.cfg.Provider.DisplayName()), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.WrapOAuthError(fmt.Sprintf("%s token response unreadable", e.cfg.Provider.DisplayName()), err)
	}

	// Provider failures are detected by the error field, not the HTTP
	// status: some providers return the error body with a 200.
	if err := providerError(body); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewOAuthError(fmt.Sprintf("%s token endpoint returned status %d", e.cfg.Provider.DisplayName(), resp.StatusCode))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, domain.WrapOAuthError(fmt.Sprintf("%s token response malformed", e.cfg.Provider.DisplayName()), err)
	}

	expiresIn := tr.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}

	return &domain.TokenSet{
		AccessToken:       tr.AccessToken,
		RefreshToken:      tr.RefreshToken,
		ExpiresIn:         expiresIn,
		TokenType:         tr.TokenType,
		Scope:             tr.Scope,
		ProviderAccountID: e.subjectFromIDToken(tr.IDToken),
	}, nil
}

// buildRequest encodes the params per the provider's token encoding.
func (e *Exchanger) buildRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	if e.cfg.TokenEncoding == domain.TokenEncodingJSON {
		payload := make(map[string]string, len(params))
		for key := range params {
			payload[key] = params.Get(key)
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.TokenURL, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.TokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// providerError reports the provider's own failure when the response body
// carries an error field. The error_description is passed through verbatim
// since callers pattern-match on it.
func providerError(body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil
	}
	if er.ErrorDescription != "" {
		return domain.NewOAuthError(er.ErrorDescription)
	}
	if er.Error != "" {
		return domain.NewOAuthError(er.Error)
	}
	return nil
}

// subjectFromIDToken extracts the configured subject claim from an
// id_token without verifying its signature. The token arrived over TLS
// directly from the issuer, so only the claim payload is of interest.
func (e *Exchanger) subjectFromIDToken(idToken string) string {
	if idToken == "" || e.subjectClaim == "" {
		return ""
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	subject, _ := claims[e.subjectClaim].(string)
	return subject
}
