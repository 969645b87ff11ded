package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/regops/auth"
	"github.com/jonwraymond/regops/observe"
	"github.com/jonwraymond/regops/registry"
	"github.com/jonwraymond/regops/resilience"
)

// maxResponseBytes bounds how much of a response body is read. Regulatory
// feeds are paginated well below this.
const maxResponseBytes = 8 << 20

// do executes one logical request against an endpoint, retrying transient
// failures within the endpoint's retry policy. The caller has already paid
// the circuit and rate admissions for the first attempt; every retry pays
// its own before going back on the wire.
func (c *Client) do(ctx context.Context, ep registry.Endpoint, method, path string, params map[string]string, payload any) ([]byte, error) {
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxRetries:   ep.Retry.MaxRetries,
		InitialDelay: ep.Retry.InitialDelay,
		MaxDelay:     ep.Retry.MaxDelay,
		Multiplier:   ep.Retry.Multiplier,
		Jitter:       true,
		RetryIf:      transient,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.logger.Warn(ctx, "retrying api request",
				observe.String("endpoint.id", ep.ID),
				observe.String("path", path),
				observe.Int("attempt", attempt),
				observe.Duration("delay", delay),
				observe.Err(err),
			)
		},
	})

	var body []byte
	first := true
	err := retry.Do(ctx, func(ctx context.Context) error {
		if !first {
			if err := c.breaker(ep.ID).Allow(); err != nil {
				return err
			}
			if !c.window(ep.ID).Allow() {
				return resilience.ErrRateLimitExceeded
			}
		}
		first = false

		b, err := c.attempt(ctx, ep, method, path, params, payload)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// attempt issues a single HTTP request within the endpoint's timeout and
// records its outcome on the breaker and both metrics sinks.
func (c *Client) attempt(ctx context.Context, ep registry.Endpoint, method, path string, params map[string]string, payload any) ([]byte, error) {
	reqURL := strings.TrimRight(ep.BaseURL, "/") + path
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		reqURL += "?" + values.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: encoding request payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	actx, cancel := context.WithTimeout(ctx, ep.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds := c.credentials(ep); creds != nil {
		if err := creds.Apply(actx, req); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		failure := fmt.Errorf("client: request failed: %w", err)
		c.recordOutcome(ctx, ep.ID, elapsed, failure)
		if ctx.Err() != nil {
			// The caller gave up; don't reclassify that as a transport fault.
			return nil, ctx.Err()
		}
		return nil, failure
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		failure := fmt.Errorf("client: reading response body: %w", err)
		c.recordOutcome(ctx, ep.ID, elapsed, failure)
		return nil, failure
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		failure := &APIError{Status: resp.StatusCode, Body: string(b)}
		c.recordOutcome(ctx, ep.ID, elapsed, failure)
		return nil, failure
	}

	c.recordOutcome(ctx, ep.ID, elapsed, nil)
	return b, nil
}

// recordOutcome accounts one completed attempt: the internal counters, the
// OTel instruments, and the endpoint's circuit breaker.
func (c *Client) recordOutcome(ctx context.Context, endpointID string, elapsed time.Duration, err error) {
	c.metrics.record(endpointID, err == nil, elapsed)
	c.requests.RecordRequest(ctx, endpointID, elapsed, err)
	if err == nil {
		c.breaker(endpointID).RecordSuccess()
	} else {
		c.breaker(endpointID).RecordFailure()
	}
}

// transient reports whether an attempt error is worth retrying. Guard
// rejections, caller cancellation, and credential problems are final;
// transport faults and retryable statuses are not.
//
// Context errors are compared by identity, not errors.Is: attempt returns
// the caller's ctx.Err() unwrapped when the caller gave up, while a
// per-attempt timeout surfaces as a wrapped transport error and stays
// retryable.
func transient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return false
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, resilience.ErrRateLimitExceeded),
		errors.Is(err, auth.ErrMissingCredentials):
		return false
	}
	return true
}
