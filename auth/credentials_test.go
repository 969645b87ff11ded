package auth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://api.example.gov/regulatory-data", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	return req
}

func TestAPIKey_SetsBearerHeader(t *testing.T) {
	req := newRequest(t)

	if err := APIKey("key-123").Apply(context.Background(), req); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer key-123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer key-123")
	}
}

func TestAPIKey_EmptyKeyErrors(t *testing.T) {
	req := newRequest(t)

	if err := APIKey("").Apply(context.Background(), req); err != ErrMissingCredentials {
		t.Errorf("Apply() = %v, want ErrMissingCredentials", err)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Authorization set despite error")
	}
}

func TestNewJWTSigner_EmptySecret(t *testing.T) {
	if _, err := NewJWTSigner(JWTConfig{}); err != ErrEmptySecret {
		t.Errorf("NewJWTSigner() error = %v, want ErrEmptySecret", err)
	}
}

func TestJWTSigner_SignsValidToken(t *testing.T) {
	secret := []byte("shared-secret")
	signer, err := NewJWTSigner(JWTConfig{
		Secret:   secret,
		Issuer:   "regops",
		Subject:  "reporting-entity-42",
		Audience: "https://api.example.gov",
		TTL:      time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTSigner() error = %v", err)
	}

	req := newRequest(t)
	if err := signer.Apply(context.Background(), req); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		t.Fatalf("Authorization = %q, want Bearer prefix", header)
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !token.Valid {
		t.Fatal("token is not valid")
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["iss"] != "regops" {
		t.Errorf("iss = %v, want regops", claims["iss"])
	}
	if claims["sub"] != "reporting-entity-42" {
		t.Errorf("sub = %v, want reporting-entity-42", claims["sub"])
	}
	if claims["aud"] != "https://api.example.gov" {
		t.Errorf("aud = %v, want https://api.example.gov", claims["aud"])
	}
}

func TestJWTSigner_TokensExpire(t *testing.T) {
	signer, err := NewJWTSigner(JWTConfig{Secret: []byte("s"), TTL: time.Second})
	if err != nil {
		t.Fatalf("NewJWTSigner() error = %v", err)
	}

	req := newRequest(t)
	if err := signer.Apply(context.Background(), req); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	token, _, err := jwt.NewParser().ParseUnverified(
		strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer "),
		jwt.MapClaims{},
	)
	if err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)
	if exp-iat != 1 {
		t.Errorf("exp-iat = %v, want 1 second", exp-iat)
	}
}
