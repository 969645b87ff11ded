// Package registry holds the configuration of registered regulatory API
// endpoints.
//
// An Endpoint is a plain record: registration is the only write path apart
// from health-check updates, and there is no deregistration. The registry
// owns the records; rate windows, circuit breakers, and metrics entries for
// an endpoint are initialized through registration hooks so the surrounding
// client never observes an endpoint without its side state.
package registry

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/jonwraymond/regops/secret"
)

// RetryPolicy bounds how the executor retries transient failures against
// one endpoint.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int `json:"max_retries"`

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration `json:"initial_delay"`

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration `json:"max_delay"`

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64 `json:"backoff_multiplier"`
}

// DefaultRetryPolicy returns the policy applied when an endpoint is
// registered without one.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// Endpoint describes one external regulatory data source.
type Endpoint struct {
	// ID uniquely identifies the endpoint. Registration overwrites by ID.
	ID string `json:"id"`

	// Name is the display name used in logs and data feeds.
	Name string `json:"name"`

	// BaseURL is the root URL all request paths are appended to.
	BaseURL string `json:"base_url"`

	// APIKey is the optional bearer credential. It may be a literal value,
	// a ${VAR} environment reference, or a secretref:<provider>:<ref>;
	// references are resolved at registration time.
	APIKey string `json:"api_key,omitempty"`

	// RateLimit is the admitted requests per minute.
	// Default: 60
	RateLimit int `json:"rate_limit"`

	// Timeout bounds each request attempt.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout"`

	// Retry bounds retries of transient failures.
	Retry RetryPolicy `json:"retry_policy"`

	// HealthCheckURL is the optional dedicated health probe URL. When
	// empty, health checks probe BaseURL instead.
	HealthCheckURL string `json:"health_check_url,omitempty"`

	// LastHealthCheck is when the endpoint was last probed.
	LastHealthCheck time.Time `json:"last_health_check,omitzero"`

	// Healthy is the outcome of the last probe. New endpoints start healthy.
	Healthy bool `json:"is_healthy"`
}

// Initializer is invoked under the registry write lock whenever an endpoint
// is registered, after validation and credential resolution.
type Initializer func(ep Endpoint)

// Registry is the endpoint store. Safe for concurrent use: lookups take a
// read lock, registration takes the write lock.
type Registry struct {
	resolver *secret.Resolver
	inits    []Initializer

	mu        sync.RWMutex
	endpoints map[string]Endpoint
}

// Option configures a Registry.
type Option func(*Registry)

// WithResolver sets the secret resolver used for endpoint credentials.
func WithResolver(r *secret.Resolver) Option {
	return func(reg *Registry) {
		reg.resolver = r
	}
}

// WithInitializer adds a hook run on every registration.
func WithInitializer(fn Initializer) Option {
	return func(reg *Registry) {
		reg.inits = append(reg.inits, fn)
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	reg := &Registry{
		endpoints: make(map[string]Endpoint),
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Register validates, defaults, and stores the endpoint, overwriting any
// existing endpoint with the same ID. Registration hooks run before the
// record becomes visible to readers.
func (r *Registry) Register(ctx context.Context, ep Endpoint) error {
	if ep.ID == "" {
		return ErrEmptyID
	}
	u, err := url.Parse(ep.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if ep.APIKey != "" && r.resolver != nil {
		resolved, err := r.resolver.ResolveValue(ctx, ep.APIKey)
		if err != nil {
			return err
		}
		ep.APIKey = resolved
	}

	// Apply defaults
	if ep.RateLimit <= 0 {
		ep.RateLimit = 60
	}
	if ep.Timeout <= 0 {
		ep.Timeout = 30 * time.Second
	}
	if ep.Retry == (RetryPolicy{}) {
		ep.Retry = DefaultRetryPolicy()
	}
	ep.Healthy = true
	ep.LastHealthCheck = time.Time{}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, init := range r.inits {
		init(ep)
	}
	r.endpoints[ep.ID] = ep
	return nil
}

// Get returns the endpoint with the given id.
func (r *Registry) Get(id string) (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[id]
	return ep, ok
}

// List returns a snapshot of all registered endpoints.
func (r *Registry) List() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		out = append(out, ep)
	}
	return out
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}

// SetHealth records a health-check outcome. It reports whether the endpoint
// exists.
func (r *Registry) SetHealth(id string, healthy bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ep, ok := r.endpoints[id]
	if !ok {
		return false
	}
	ep.Healthy = healthy
	ep.LastHealthCheck = time.Now()
	r.endpoints[id] = ep
	return true
}
