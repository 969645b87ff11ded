package client

import (
	"errors"
	"fmt"
)

// ErrEndpointNotFound is returned when an operation names an endpoint that
// was never registered.
var ErrEndpointNotFound = errors.New("client: endpoint not found")

// APIError is returned when a request reached the endpoint and came back
// with a non-2xx status. It is distinct from the guard errors
// (resilience.ErrCircuitOpen, resilience.ErrRateLimitExceeded), which mean
// no request was attempted at all.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Body is the response body, possibly truncated.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: api request failed with status %d: %s", e.Status, e.Body)
}

// Transient reports whether the failure is worth retrying: server-side
// errors and throttling, never other client errors.
func (e *APIError) Transient() bool {
	return e.Status >= 500 || e.Status == 429
}
