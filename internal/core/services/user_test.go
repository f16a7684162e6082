package services

import (
	"context"
	"errors"
	"testing"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
)

func TestRegister_Success(t *testing.T) {
	env := newAuthEnv(t)

	user, err := env.userService.Register(context.Background(), domain.RegisterRequest{
		Email:    "  Alice@Example.COM ",
		Password: "s3cret-pass",
		Name:     "  Alice  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID == "" {
		t.Error("expected generated ID")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Alice" {
		t.Errorf("expected trimmed name, got %q", user.Name)
	}
	if !user.Active {
		t.Error("expected new accounts to be active")
	}
	if user.PasswordHash == "s3cret-pass" || user.PasswordHash == "" {
		t.Error("expected hashed password")
	}

	stored, err := env.users.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected user persisted: %v", err)
	}
	if stored.Email != user.Email {
		t.Errorf("stored email %q does not match", stored.Email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	env.register(t, "alice@example.com", "s3cret-pass", "Alice")

	_, err := env.userService.Register(context.Background(), domain.RegisterRequest{
		Email:    "alice@example.com",
		Password: "other-pass",
		Name:     "Alice Again",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegister_DuplicateEmailUnnormalized(t *testing.T) {
	env := newAuthEnv(t)
	env.register(t, "alice@example.com", "s3cret-pass", "Alice")

	// The duplicate check must see the normalized form, not the raw input
	_, err := env.userService.Register(context.Background(), domain.RegisterRequest{
		Email:    "  ALICE@Example.COM ",
		Password: "other-pass",
		Name:     "Alice Again",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	env := newAuthEnv(t)

	cases := []domain.RegisterRequest{
		{},
		{Email: "alice@example.com"},
		{Email: "alice@example.com", Password: "s3cret-pass"},
		{Password: "s3cret-pass", Name: "Alice"},
	}
	for i, req := range cases {
		if _, err := env.userService.Register(context.Background(), req); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestUserGet(t *testing.T) {
	env := newAuthEnv(t)
	user := env.register(t, "alice@example.com", "s3cret-pass", "Alice")

	got, err := env.userService.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", got.Email)
	}

	if _, err := env.userService.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserDelete_RemovesSessions(t *testing.T) {
	env := newAuthEnv(t)
	user := env.register(t, "alice@example.com", "s3cret-pass", "Alice")

	resp, err := env.authService.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := env.userService.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.userService.Get(context.Background(), user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected user gone, got %v", err)
	}
	if _, err := env.authService.ValidateToken(context.Background(), resp.Token); err == nil {
		t.Error("expected sessions invalidated after delete")
	}
}
