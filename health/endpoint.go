// Package health probes the availability of registered regulatory API
// endpoints and aggregates the results.
//
// Two probe modes exist. An endpoint with a dedicated health-check URL is
// healthy only on a 2xx response. An endpoint probed at its base URL is
// treated as healthy on any response other than 404: regulatory portals
// routinely answer their root path with 403 or a redirect while the API
// itself is fine, so only "not found" and transport failure count against
// them.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// EndpointChecker probes one registered endpoint over HTTP.
type EndpointChecker struct {
	name       string
	url        string
	dedicated  bool
	httpClient *http.Client
}

// NewEndpointChecker creates a checker for an endpoint. healthURL may be
// empty, in which case baseURL is probed instead.
func NewEndpointChecker(name, healthURL, baseURL string, httpClient *http.Client) *EndpointChecker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &EndpointChecker{
		name:       name,
		url:        healthURL,
		dedicated:  true,
		httpClient: httpClient,
	}
	if healthURL == "" {
		c.url = baseURL
		c.dedicated = false
	}
	return c
}

// Name returns the endpoint name.
func (c *EndpointChecker) Name() string {
	return c.name
}

// Check issues the probe request.
func (c *EndpointChecker) Check(ctx context.Context) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Unhealthy("invalid probe url", err).WithDuration(time.Since(start))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Unhealthy("probe failed", err).WithDuration(time.Since(start))
	}
	defer resp.Body.Close()

	healthy := false
	if c.dedicated {
		healthy = resp.StatusCode >= 200 && resp.StatusCode < 300
	} else {
		healthy = resp.StatusCode != http.StatusNotFound
	}

	if !healthy {
		return Unhealthy(fmt.Sprintf("probe returned status %d", resp.StatusCode), nil).
			WithDuration(time.Since(start))
	}
	return Healthy(fmt.Sprintf("probe returned status %d", resp.StatusCode)).
		WithDuration(time.Since(start))
}

// Ensure EndpointChecker implements Checker
var _ Checker = (*EndpointChecker)(nil)
