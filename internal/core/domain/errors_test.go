package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestOAuthError_MessagesAreStable(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidState, "Invalid OAuth state"},
		{ErrStateExpired, "OAuth state expired"},
		{ErrUserNotFound, "User not found"},
		{ErrMissingTokenData, "Invalid token data: missing access or refresh token"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.err.Error())
		}
	}
}

func TestOAuthError_IsMatchesByMessage(t *testing.T) {
	if !errors.Is(NewOAuthError("User not found"), ErrUserNotFound) {
		t.Error("expected equal-message errors to match")
	}
	if errors.Is(NewOAuthError("Something else"), ErrUserNotFound) {
		t.Error("expected different messages not to match")
	}
	if errors.Is(ErrInvalidState, ErrStateExpired) {
		t.Error("expected distinct sentinels not to match")
	}
}

func TestWrapOAuthError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapOAuthError("save tokens", cause)

	if err.Error() != "save tokens: connection refused" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to match with errors.Is")
	}

	// Matching stays message-based even with a cause attached
	if !errors.Is(err, NewOAuthError("save tokens")) {
		t.Error("expected message match to ignore the cause")
	}
}

func TestOAuthError_AsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewOAuthError("Invalid authorization code"))

	var oauthErr *OAuthError
	if !errors.As(err, &oauthErr) {
		t.Fatal("expected OAuthError through fmt wrapping")
	}
	if oauthErr.Message != "Invalid authorization code" {
		t.Errorf("unexpected message: %q", oauthErr.Message)
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{
		Provider: ProviderGoogle,
		Missing:  []string{"client_id", "client_secret"},
	}
	want := "google provider config incomplete: missing client_id, client_secret"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
