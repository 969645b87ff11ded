package webhook

import "errors"

// Sentinel errors for webhook processing.
var (
	// ErrInvalidSignature is returned when a payload signature fails
	// verification or no verification key is configured for its source.
	ErrInvalidSignature = errors.New("webhook: invalid signature")

	// ErrMalformedPayload is returned when a recognized event type is
	// missing required fields.
	ErrMalformedPayload = errors.New("webhook: malformed payload")
)
