package app

import (
	"context"
	"errors"
	"strings"

	"portions/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized indicates that the request carried no valid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// TokenVerifier verifies an OpenID Connect id token and returns its subject.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*domain.Principal, error)
}

// AuthService checks API keys and id tokens. It keeps no state of its own.
type AuthService struct {
	apiKeyHash []byte
	verifier   TokenVerifier
}

// NewAuthService creates an AuthService. An empty apiKeyHash disables API key
// access; a nil verifier disables id token access.
func NewAuthService(apiKeyHash string, verifier TokenVerifier) *AuthService {
	s := &AuthService{verifier: verifier}
	if h := strings.TrimSpace(apiKeyHash); h != "" {
		s.apiKeyHash = []byte(h)
	}
	return s
}

// Enabled reports whether any credential type is configured.
func (s *AuthService) Enabled() bool {
	return len(s.apiKeyHash) > 0 || s.verifier != nil
}

// SSOEnabled reports whether id tokens are accepted.
func (s *AuthService) SSOEnabled() bool {
	return s.verifier != nil
}

// ValidateAPIKey compares key against the configured bcrypt hash.
func (s *AuthService) ValidateAPIKey(key string) (*domain.Principal, error) {
	if len(s.apiKeyHash) == 0 || key == "" {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(key)); err != nil {
		return nil, ErrUnauthorized
	}
	return &domain.Principal{Subject: "api-key", Method: "api_key"}, nil
}

// ValidateIDToken verifies raw with the configured OpenID provider.
func (s *AuthService) ValidateIDToken(ctx context.Context, raw string) (*domain.Principal, error) {
	if s.verifier == nil || raw == "" {
		return nil, ErrUnauthorized
	}
	p, err := s.verifier.Verify(ctx, raw)
	if err != nil || p == nil {
		return nil, ErrUnauthorized
	}
	return p, nil
}

// HashAPIKey returns the bcrypt hash to configure for key.
func HashAPIKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("api key must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
