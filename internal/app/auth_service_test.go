package app_test

import (
	"context"
	"errors"
	"testing"

	"portions/internal/app"
	"portions/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockVerifier struct {
	verifyFn func(ctx context.Context, raw string) (*domain.Principal, error)
}

func (m *mockVerifier) Verify(ctx context.Context, raw string) (*domain.Principal, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, raw)
	}
	return nil, errors.New("not configured")
}

func TestValidateAPIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := app.NewAuthService(string(hash), nil)

	p, err := svc.ValidateAPIKey("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Method != "api_key" {
		t.Errorf("method = %q", p.Method)
	}

	for _, key := range []string{"", "wrong"} {
		if _, err := svc.ValidateAPIKey(key); !errors.Is(err, app.ErrUnauthorized) {
			t.Errorf("ValidateAPIKey(%q): expected ErrUnauthorized, got %v", key, err)
		}
	}
}

func TestValidateAPIKey_NotConfigured(t *testing.T) {
	svc := app.NewAuthService("", nil)
	if svc.Enabled() {
		t.Error("expected auth to be disabled")
	}
	if _, err := svc.ValidateAPIKey("anything"); !errors.Is(err, app.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateIDToken(t *testing.T) {
	v := &mockVerifier{
		verifyFn: func(_ context.Context, raw string) (*domain.Principal, error) {
			if raw == "good" {
				return &domain.Principal{Subject: "u1", Email: "a@example.com", Method: "oidc"}, nil
			}
			return nil, errors.New("bad signature")
		},
	}
	svc := app.NewAuthService("", v)
	if !svc.Enabled() || !svc.SSOEnabled() {
		t.Fatal("expected SSO to be enabled")
	}

	p, err := svc.ValidateIDToken(context.Background(), "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "a@example.com" {
		t.Errorf("name = %q", p.Name())
	}

	for _, raw := range []string{"", "bad"} {
		if _, err := svc.ValidateIDToken(context.Background(), raw); !errors.Is(err, app.ErrUnauthorized) {
			t.Errorf("ValidateIDToken(%q): expected ErrUnauthorized, got %v", raw, err)
		}
	}
}

func TestHashAPIKey(t *testing.T) {
	h, err := app.HashAPIKey("k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := app.NewAuthService(h, nil).ValidateAPIKey("k"); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if _, err := app.HashAPIKey(""); err == nil {
		t.Error("expected error for empty key")
	}
}
