// Package config loads service configuration from environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration for meetsync-core.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	OAuth    OAuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string `env:"MEETSYNC_HTTP_HOST" envDefault:"0.0.0.0"`
	Port    int    `env:"MEETSYNC_HTTP_PORT" envDefault:"8080"`
	Version string `env:"MEETSYNC_VERSION" envDefault:"dev"`
}

// DatabaseConfig holds PostgreSQL settings. URL is required.
type DatabaseConfig struct {
	URL string `env:"MEETSYNC_DATABASE_URL"`
}

// RedisConfig holds optional Redis settings. When Addr is empty, sessions
// fall back to the in-memory store and OAuth states to the PostgreSQL store.
type RedisConfig struct {
	Addr     string `env:"MEETSYNC_REDIS_ADDR"`
	Password string `env:"MEETSYNC_REDIS_PASSWORD"`
	DB       int    `env:"MEETSYNC_REDIS_DB" envDefault:"0"`
}

// AuthConfig holds session and token-at-rest settings.
type AuthConfig struct {
	JWTSecret string `env:"MEETSYNC_JWT_SECRET"`

	// TokenKeyB64 is the base64-encoded 32-byte AES key that encrypts
	// provider tokens at rest.
	TokenKeyB64 string `env:"MEETSYNC_TOKEN_KEY"`
}

// OAuthConfig holds per-provider app credentials and the state TTL.
type OAuthConfig struct {
	StateTTL time.Duration `env:"MEETSYNC_OAUTH_STATE_TTL" envDefault:"5m"`

	GoogleClientID     string `env:"MEETSYNC_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"MEETSYNC_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"MEETSYNC_GOOGLE_REDIRECT_URI"`

	MicrosoftClientID     string `env:"MEETSYNC_MICROSOFT_CLIENT_ID"`
	MicrosoftClientSecret string `env:"MEETSYNC_MICROSOFT_CLIENT_SECRET"`
	MicrosoftTenantID     string `env:"MEETSYNC_MICROSOFT_TENANT_ID" envDefault:"common"`
	MicrosoftRedirectURI  string `env:"MEETSYNC_MICROSOFT_REDIRECT_URI"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("MEETSYNC_DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("MEETSYNC_JWT_SECRET is required")
	}
	if cfg.Auth.TokenKeyB64 == "" {
		return nil, fmt.Errorf("MEETSYNC_TOKEN_KEY is required")
	}
	if _, err := cfg.TokenKey(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TokenKey decodes and validates the token encryption key.
func (c *Config) TokenKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.Auth.TokenKeyB64)
	if err != nil {
		return nil, fmt.Errorf("MEETSYNC_TOKEN_KEY is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("MEETSYNC_TOKEN_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
