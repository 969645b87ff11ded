package auth

import "errors"

// Sentinel errors for credential handling.
var (
	// ErrMissingCredentials is returned when a credential value is empty.
	ErrMissingCredentials = errors.New("auth: missing credentials")

	// ErrEmptySecret is returned when a JWT signer has no signing secret.
	ErrEmptySecret = errors.New("auth: signing secret is required")
)
