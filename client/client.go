// Package client is the resilient facade over external regulatory APIs.
//
// Callers register named endpoints and then fetch regulatory data, poll
// compliance updates, or submit compliance reports through one handle. Every
// outbound call passes the per-endpoint guards in a fixed order: circuit
// breaker, rate window, then the HTTP request itself, retried within the
// endpoint's retry policy. Guard rejections are reported distinctly from
// request failures so callers can tell "we didn't try" from "we tried and
// failed".
//
// All state (endpoint records, circuit breakers, rate windows, counters)
// lives on the Client and spans the process lifetime. There are no package
// globals and no persistence.
package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/regops/auth"
	"github.com/jonwraymond/regops/cache"
	"github.com/jonwraymond/regops/observe"
	"github.com/jonwraymond/regops/registry"
	"github.com/jonwraymond/regops/resilience"
	"github.com/jonwraymond/regops/secret"
)

// Client coordinates registration, guarded request execution, and
// bookkeeping for all configured regulatory endpoints.
type Client struct {
	httpClient *http.Client
	registry   *registry.Registry
	logger     observe.Logger
	requests   observe.Metrics
	metrics    *aggregator
	respCache  cache.Cache
	cacheTTL   time.Duration
	userAgent  string
	breakerCfg resilience.CircuitBreakerConfig
	creds      map[string]auth.Credentials

	mu       sync.Mutex
	breakers map[string]*resilience.CircuitBreaker
	windows  map[string]*resilience.Window
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the HTTP client used for all outbound requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(logger observe.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithMeter enables OpenTelemetry request metrics through the given meter.
func WithMeter(meter metric.Meter) Option {
	return func(c *Client) error {
		m, err := observe.NewMetrics(meter)
		if err != nil {
			return err
		}
		c.requests = m
		return nil
	}
}

// WithResponseCache caches successful fetch bodies for the given TTL.
func WithResponseCache(respCache cache.Cache, ttl time.Duration) Option {
	return func(c *Client) error {
		c.respCache = respCache
		c.cacheTTL = ttl
		return nil
	}
}

// WithUserAgent sets the User-Agent header on outbound requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// WithBreakerConfig sets the circuit-breaker policy applied to every
// endpoint registered afterwards.
func WithBreakerConfig(cfg resilience.CircuitBreakerConfig) Option {
	return func(c *Client) error {
		c.breakerCfg = cfg
		return nil
	}
}

// WithSecretResolver resolves endpoint credential references at
// registration time.
func WithSecretResolver(r *secret.Resolver) Option {
	return func(c *Client) error {
		c.registry = registry.New(
			registry.WithResolver(r),
			registry.WithInitializer(c.initEndpoint),
		)
		return nil
	}
}

// WithCredentials overrides the credentials used for one endpoint, for
// authorities that require more than a static bearer key (for example an
// auth.JWTSigner client assertion).
func WithCredentials(endpointID string, creds auth.Credentials) Option {
	return func(c *Client) error {
		c.creds[endpointID] = creds
		return nil
	}
}

// New creates a client with no registered endpoints.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{},
		logger:     observe.NewNopLogger(),
		requests:   observe.NewNopMetrics(),
		metrics:    newAggregator(),
		userAgent:  "regops/1.0",
		creds:      make(map[string]auth.Credentials),
		breakers:   make(map[string]*resilience.CircuitBreaker),
		windows:    make(map[string]*resilience.Window),
	}
	c.registry = registry.New(registry.WithInitializer(c.initEndpoint))

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RegisterEndpoint validates and stores an endpoint configuration,
// initializing its circuit breaker to closed, its rate window to empty, and
// its metrics entry to zero. Registering an existing id overwrites the
// record and resets that side state.
func (c *Client) RegisterEndpoint(ctx context.Context, ep registry.Endpoint) error {
	if err := c.registry.Register(ctx, ep); err != nil {
		return err
	}
	c.logger.Info(ctx, "registered api endpoint",
		observe.String("endpoint.id", ep.ID),
		observe.String("name", ep.Name),
		observe.String("base_url", ep.BaseURL),
	)
	return nil
}

// Endpoint returns the registered endpoint record for id.
func (c *Client) Endpoint(id string) (registry.Endpoint, bool) {
	return c.registry.Get(id)
}

// Metrics returns a snapshot of the request counters.
func (c *Client) Metrics() MetricsSnapshot {
	return c.metrics.snapshot()
}

// CircuitState returns the circuit state for an endpoint.
func (c *Client) CircuitState(endpointID string) resilience.State {
	return c.breaker(endpointID).State()
}

// ResetCircuit manually closes an endpoint's circuit breaker.
func (c *Client) ResetCircuit(endpointID string) {
	c.breaker(endpointID).Reset()
}

// initEndpoint runs under the registry write lock on every registration.
func (c *Client) initEndpoint(ep registry.Endpoint) {
	c.mu.Lock()
	c.breakers[ep.ID] = resilience.NewCircuitBreaker(c.breakerCfg)
	c.windows[ep.ID] = resilience.NewWindow(resilience.WindowConfig{PerMinute: ep.RateLimit})
	c.mu.Unlock()

	c.metrics.ensure(ep.ID)
}

// breaker returns the endpoint's circuit breaker, creating one on demand
// for ids that bypassed registration.
func (c *Client) breaker(endpointID string) *resilience.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[endpointID]
	if !ok {
		cb = resilience.NewCircuitBreaker(c.breakerCfg)
		c.breakers[endpointID] = cb
	}
	return cb
}

// window returns the endpoint's rate window. Unknown ids get the default
// 60-per-minute window rather than an unlimited one.
func (c *Client) window(endpointID string) *resilience.Window {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[endpointID]
	if !ok {
		w = resilience.NewWindow(resilience.WindowConfig{})
		c.windows[endpointID] = w
	}
	return w
}

// credentials returns the credentials for an endpoint: a registered
// override first, else the endpoint's bearer key, else nil.
func (c *Client) credentials(ep registry.Endpoint) auth.Credentials {
	if creds, ok := c.creds[ep.ID]; ok {
		return creds
	}
	if ep.APIKey != "" {
		return auth.APIKey(ep.APIKey)
	}
	return nil
}
