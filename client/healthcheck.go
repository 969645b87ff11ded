package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/regops/health"
	"github.com/jonwraymond/regops/observe"
)

// healthCheckConcurrency bounds how many endpoints are probed at once.
const healthCheckConcurrency = 8

// HealthCheckAll probes every registered endpoint concurrently and returns
// endpoint id to health. An unhealthy probe records a failure on the
// endpoint's circuit breaker and marks the registry record, so repeated bad
// probes can open the circuit before any caller burns a real request on it.
func (c *Client) HealthCheckAll(ctx context.Context) map[string]bool {
	endpoints := c.registry.List()
	results := make(map[string]bool, len(endpoints))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(healthCheckConcurrency)

	for _, ep := range endpoints {
		ep := ep
		g.Go(func() error {
			checker := health.NewEndpointChecker(ep.Name, ep.HealthCheckURL, ep.BaseURL, c.httpClient)
			result := checker.Check(gctx)

			healthy := result.Status != health.StatusUnhealthy
			if !healthy {
				c.breaker(ep.ID).RecordFailure()
				c.logger.Warn(gctx, "endpoint health check failed",
					observe.String("endpoint.id", ep.ID),
					observe.String("message", result.Message),
					observe.Err(result.Error),
				)
			}
			c.registry.SetHealth(ep.ID, healthy)

			mu.Lock()
			results[ep.ID] = healthy
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// HealthAggregator builds a health.Aggregator over the currently registered
// endpoints, ready to mount behind health.RegisterHandlers.
func (c *Client) HealthAggregator() *health.Aggregator {
	agg := health.NewAggregator()
	for _, ep := range c.registry.List() {
		agg.Register(ep.ID, health.NewEndpointChecker(ep.Name, ep.HealthCheckURL, ep.BaseURL, c.httpClient))
	}
	return agg
}
