package domain

import "time"

// RefreshMargin is the safety window before expiry within which tokens are
// refreshed proactively rather than served as-is.
const RefreshMargin = 5 * time.Minute

// Credential stores one user's tokens for one provider. Token material is
// held only as ciphertext; plaintext tokens never touch the store.
type Credential struct {
	UserID   string   `json:"user_id"`
	Provider Provider `json:"provider"`

	// AccessTokenCipher and RefreshTokenCipher are AES-GCM blobs.
	AccessTokenCipher  []byte `json:"-"` // Never serialize
	RefreshTokenCipher []byte `json:"-"` // Never serialize

	// TokenExpiry is the absolute UTC instant the access token expires.
	TokenExpiry time.Time `json:"token_expiry"`

	// ProviderAccountID is the provider's own subject identifier, if known.
	ProviderAccountID string `json:"provider_account_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialSummary is a safe view without token material.
type CredentialSummary struct {
	Provider          Provider  `json:"provider"`
	Connected         bool      `json:"connected"`
	TokenExpiry       time.Time `json:"token_expiry"`
	ProviderAccountID string    `json:"provider_account_id,omitempty"`
}

// ToSummary converts a Credential to CredentialSummary.
func (c *Credential) ToSummary() *CredentialSummary {
	return &CredentialSummary{
		Provider:          c.Provider,
		Connected:         len(c.AccessTokenCipher) > 0,
		TokenExpiry:       c.TokenExpiry,
		ProviderAccountID: c.ProviderAccountID,
	}
}

// IsExpired checks if the access token has expired.
func (c *Credential) IsExpired() bool {
	return !c.TokenExpiry.After(time.Now())
}

// NeedsRefresh checks if the token should be refreshed (within RefreshMargin
// of expiry).
func (c *Credential) NeedsRefresh() bool {
	return !c.TokenExpiry.After(time.Now().Add(RefreshMargin))
}

// TokenSet is the ephemeral result of a token endpoint call. Tokens are
// plaintext and in-memory only; it is never persisted as such.
type TokenSet struct {
	AccessToken  string
	RefreshToken string

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int

	TokenType string
	Scope     string

	// ProviderAccountID is the provider subject claim, when the response
	// carries one (Google id_token sub, Microsoft oid).
	ProviderAccountID string
}

// TokenPair is the decrypted view handed to calendar clients.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}
