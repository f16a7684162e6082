package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// OAuthError is the error surface of the OAuth core. Callers pattern-match on
// the message, so Message is preserved verbatim and any wrapped cause is
// appended rather than substituted.
type OAuthError struct {
	// Message is the human-readable failure description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *OAuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OAuthError) Unwrap() error {
	return e.Err
}

// Is matches OAuthErrors by message so sentinel values work with errors.Is.
func (e *OAuthError) Is(target error) bool {
	t, ok := target.(*OAuthError)
	return ok && t.Message == e.Message
}

// NewOAuthError creates an OAuthError with the given message.
func NewOAuthError(message string) *OAuthError {
	return &OAuthError{Message: message}
}

// WrapOAuthError creates an OAuthError carrying an underlying cause.
func WrapOAuthError(message string, err error) *OAuthError {
	return &OAuthError{Message: message, Err: err}
}

// OAuth flow errors. All of them mean the user must restart the
// authorization flow; none are retried automatically.
var (
	// ErrInvalidState indicates the state token is unknown or already consumed.
	ErrInvalidState = NewOAuthError("Invalid OAuth state")

	// ErrStateExpired indicates the state token was found but past its TTL.
	ErrStateExpired = NewOAuthError("OAuth state expired")

	// ErrUserNotFound indicates the user record does not exist.
	ErrUserNotFound = NewOAuthError("User not found")

	// ErrMissingTokenData indicates a token response without both tokens.
	ErrMissingTokenData = NewOAuthError("Invalid token data: missing access or refresh token")
)

// ConfigError indicates required provider configuration is missing.
// It is fatal to the operation and never retried.
type ConfigError struct {
	Provider Provider
	Missing  []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s provider config incomplete: missing %s",
		e.Provider, strings.Join(e.Missing, ", "))
}
