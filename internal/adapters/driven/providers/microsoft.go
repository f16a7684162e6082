package providers

import (
	"net/url"

	"golang.org/x/oauth2/microsoft"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

// microsoftSubjectClaim is the id_token claim carrying the directory
// object ID of the Microsoft account.
const microsoftSubjectClaim = "oid"

// MicrosoftScopes is the default scope set for calendar access.
// offline_access is what makes Microsoft return a refresh token.
var MicrosoftScopes = []string{
	"openid",
	"email",
	"offline_access",
	"Calendars.ReadWrite",
}

// MicrosoftConfig builds the provider configuration for Microsoft 365
// calendars. tenantID selects the directory; "common" admits any account.
func MicrosoftConfig(clientID, clientSecret, tenantID, redirectURI string) *domain.ProviderConfig {
	if tenantID == "" {
		tenantID = "common"
	}
	endpoint := microsoft.AzureADEndpoint(tenantID)

	return &domain.ProviderConfig{
		Provider:      domain.ProviderMicrosoft,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		TenantID:      tenantID,
		RedirectURI:   redirectURI,
		Scopes:        MicrosoftScopes,
		AuthURL:       endpoint.AuthURL,
		TokenURL:      endpoint.TokenURL,
		TokenEncoding: domain.TokenEncodingForm,
		ExtraAuthParams: url.Values{
			"response_mode": {"query"},
		},
	}
}

// NewMicrosoftExchanger creates a token exchanger for Microsoft.
func NewMicrosoftExchanger(cfg *domain.ProviderConfig) *Exchanger {
	return NewExchanger(cfg, microsoftSubjectClaim)
}
