package domain

import "net/url"

// Provider identifies an external calendar platform.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderMicrosoft Provider = "microsoft"
)

// ParseProvider validates a provider name from an external source.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderMicrosoft:
		return Provider(s), nil
	default:
		return "", ErrInvalidInput
	}
}

// DisplayName returns the human-readable provider name used in messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGoogle:
		return "Google"
	case ProviderMicrosoft:
		return "Microsoft"
	default:
		return string(p)
	}
}

// TokenEncoding selects the wire format of the token endpoint request body.
type TokenEncoding string

const (
	// TokenEncodingForm sends application/x-www-form-urlencoded bodies.
	TokenEncodingForm TokenEncoding = "form"

	// TokenEncodingJSON sends application/json bodies.
	TokenEncodingJSON TokenEncoding = "json"
)

// ProviderConfig holds everything the OAuth engine needs to drive one
// provider: app credentials plus the provider-capability record (endpoints,
// wire encoding, scope separator, extra consent parameters).
type ProviderConfig struct {
	Provider     Provider
	ClientID     string
	ClientSecret string

	// TenantID is the Microsoft directory tenant. Empty for Google.
	TenantID string

	RedirectURI string
	Scopes      []string

	// AuthURL is the user consent endpoint.
	AuthURL string

	// TokenURL is the token exchange endpoint.
	TokenURL string

	// TokenEncoding selects form vs JSON token requests.
	TokenEncoding TokenEncoding

	// ScopeSeparator joins Scopes in the consent URL. Defaults to a space.
	ScopeSeparator string

	// ExtraAuthParams are fixed provider-policy parameters appended to the
	// consent URL, e.g. access_type=offline and prompt=consent for Google.
	ExtraAuthParams url.Values
}

// Validate reports the required fields that are missing. It returns a
// ConfigError so callers can refuse to start a flow before issuing state.
func (c *ProviderConfig) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if c.AuthURL == "" {
		missing = append(missing, "auth_url")
	}
	if c.TokenURL == "" {
		missing = append(missing, "token_url")
	}
	if len(c.Scopes) == 0 {
		missing = append(missing, "scopes")
	}
	if len(missing) > 0 {
		return &ConfigError{Provider: c.Provider, Missing: missing}
	}
	return nil
}

// JoinedScopes returns the scope list joined per provider convention.
func (c *ProviderConfig) JoinedScopes() string {
	sep := c.ScopeSeparator
	if sep == "" {
		sep = " "
	}
	out := ""
	for i, s := range c.Scopes {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}
