package config

import (
	"encoding/base64"
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MEETSYNC_DATABASE_URL", "postgres://localhost/meetsync?sslmode=disable")
	t.Setenv("MEETSYNC_JWT_SECRET", "test-secret")
	t.Setenv("MEETSYNC_TOKEN_KEY", base64.StdEncoding.EncodeToString(make([]byte, 32)))
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.ListenAddr() != "0.0.0.0:8080" {
		t.Errorf("unexpected listen address %q", cfg.ListenAddr())
	}
	if cfg.OAuth.StateTTL.Minutes() != 5 {
		t.Errorf("expected 5m state TTL, got %v", cfg.OAuth.StateTTL)
	}
	if cfg.OAuth.MicrosoftTenantID != "common" {
		t.Errorf("expected common tenant default, got %q", cfg.OAuth.MicrosoftTenantID)
	}

	key, err := cfg.TokenKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(key) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(key))
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"database URL", "MEETSYNC_DATABASE_URL"},
		{"JWT secret", "MEETSYNC_JWT_SECRET"},
		{"token key", "MEETSYNC_TOKEN_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.omit) {
				t.Errorf("expected %s named in error, got %q", tt.omit, err)
			}
		})
	}
}

func TestTokenKey_Invalid(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("MEETSYNC_TOKEN_KEY", "not-base64!!!")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid base64")
	}

	t.Setenv("MEETSYNC_TOKEN_KEY", base64.StdEncoding.EncodeToString(make([]byte, 16)))
	if _, err := Load(); err == nil {
		t.Error("expected error for short key")
	}
}
