package registry

import "errors"

// Sentinel errors for endpoint registration.
var (
	// ErrEmptyID is returned when an endpoint is registered without an id.
	ErrEmptyID = errors.New("registry: endpoint id is required")

	// ErrInvalidBaseURL is returned when the base URL has no scheme or host.
	ErrInvalidBaseURL = errors.New("registry: base url is invalid")
)
