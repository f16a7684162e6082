package providers

import (
	"net/url"

	"golang.org/x/oauth2/google"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// googleSubjectClaim is the id_token claim carrying the Google account ID.
const googleSubjectClaim = "sub"

// GoogleScopes is the default scope set for calendar access.
var GoogleScopes = []string{
	"openid",
	"email",
	"https://www.googleapis.com/auth/calendar",
}

// GoogleConfig builds the provider configuration for Google Calendar.
// access_type=offline and prompt=consent force Google to issue a refresh
// token on every authorization, not just the first.
func GoogleConfig(clientID, clientSecret, redirectURI string) *domain.ProviderConfig {
	return &domain.ProviderConfig{
		Provider:      domain.ProviderGoogle,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		RedirectURI:   redirectURI,
		Scopes:        GoogleScopes,
		AuthURL:       google.Endpoint.AuthURL,
		TokenURL:      google.Endpoint.TokenURL,
		TokenEncoding: domain.TokenEncodingForm,
		ExtraAuthParams: url.Values{
			"access_type": {"offline"},
			"prompt":      {"consent"},
		},
	}
}

// NewGoogleExchanger creates a token exchanger for Google.
func NewGoogleExchanger(cfg *domain.ProviderConfig) *Exchanger {
	return NewExchanger(cfg, googleSubjectClaim)
}
