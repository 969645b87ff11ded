package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures the JWT signer.
type JWTConfig struct {
	// Secret is the HS256 signing secret shared with the endpoint.
	Secret []byte

	// Issuer is the iss claim.
	Issuer string

	// Subject is the sub claim.
	Subject string

	// Audience is the aud claim, typically the endpoint base URL.
	Audience string

	// TTL is the token lifetime.
	// Default: 60 seconds
	TTL time.Duration
}

// JWTSigner issues a short-lived HS256-signed bearer assertion per request.
type JWTSigner struct {
	config JWTConfig
}

// NewJWTSigner creates a new JWT signer.
func NewJWTSigner(config JWTConfig) (*JWTSigner, error) {
	if len(config.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	// Apply defaults
	if config.TTL <= 0 {
		config.TTL = 60 * time.Second
	}

	return &JWTSigner{config: config}, nil
}

// Apply signs a fresh token and sets the Authorization header.
func (s *JWTSigner) Apply(_ context.Context, req *http.Request) error {
	now := time.Now()

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(s.config.TTL).Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	if s.config.Subject != "" {
		claims["sub"] = s.config.Subject
	}
	if s.config.Audience != "" {
		claims["aud"] = s.config.Audience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.Secret)
	if err != nil {
		return fmt.Errorf("auth: signing token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+signed)
	return nil
}

// Ensure JWTSigner implements Credentials
var _ Credentials = (*JWTSigner)(nil)
