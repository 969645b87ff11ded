// Package auth attaches outbound credentials to API requests.
//
// Regulatory data sources authenticate in one of two ways: a static bearer
// API key, or a short-lived signed client assertion. Both are expressed
// through the Credentials interface so the request executor does not care
// which scheme an endpoint uses.
package auth

import (
	"context"
	"net/http"
)

// Credentials applies authentication to an outbound request.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Apply must leave the request unmodified on error.
type Credentials interface {
	Apply(ctx context.Context, req *http.Request) error
}

// apiKey is a static bearer-token credential.
type apiKey string

// APIKey creates bearer-token credentials from a static key.
func APIKey(key string) Credentials {
	return apiKey(key)
}

// Apply sets the Authorization header.
func (k apiKey) Apply(_ context.Context, req *http.Request) error {
	if k == "" {
		return ErrMissingCredentials
	}
	req.Header.Set("Authorization", "Bearer "+string(k))
	return nil
}
