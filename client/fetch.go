package client

import (
	"context"
	"net/http"
	"time"

	"github.com/jonwraymond/regops/cache"
	"github.com/jonwraymond/regops/observe"
	"github.com/jonwraymond/regops/registry"
	"github.com/jonwraymond/regops/resilience"
)

// feedPath is the regulatory data resource relative to every endpoint's
// base URL.
const feedPath = "/regulatory-data"

// FetchRegulatoryData fetches a regulatory data feed from one registered
// endpoint. Guards run in order: unknown endpoint, open circuit, exhausted
// rate window. A cached response (when a response cache is configured)
// short-circuits after the guards without touching the wire or the
// counters.
func (c *Client) FetchRegulatoryData(ctx context.Context, endpointID string, params map[string]string) (*RegulatoryDataFeed, error) {
	ep, ok := c.registry.Get(endpointID)
	if !ok {
		return nil, ErrEndpointNotFound
	}
	if err := c.breaker(ep.ID).Allow(); err != nil {
		return nil, err
	}
	if !c.window(ep.ID).Allow() {
		return nil, resilience.ErrRateLimitExceeded
	}

	key := cache.FeedKey(ep.ID, "regulatory-data", params)
	if c.respCache != nil {
		if body, ok := c.respCache.Get(ctx, key); ok {
			c.logger.Debug(ctx, "serving regulatory data from cache",
				observe.String("endpoint.id", ep.ID),
				observe.String("cache_key", key),
			)
			return c.buildFeed(ep, params, body), nil
		}
	}

	body, err := c.do(ctx, ep, http.MethodGet, feedPath, params, nil)
	if err != nil {
		return nil, err
	}

	if c.respCache != nil {
		if err := c.respCache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.logger.Warn(ctx, "caching regulatory data failed",
				observe.String("endpoint.id", ep.ID),
				observe.Err(err),
			)
		}
	}
	return c.buildFeed(ep, params, body), nil
}

func (c *Client) buildFeed(ep registry.Endpoint, params map[string]string, body []byte) *RegulatoryDataFeed {
	jurisdiction := params["jurisdiction"]
	if jurisdiction == "" {
		jurisdiction = "GLOBAL"
	}
	return &RegulatoryDataFeed{
		Source:          ep.Name,
		DataType:        "regulatory_update",
		Content:         decodeContent(body),
		Timestamp:       time.Now().UTC(),
		Jurisdiction:    jurisdiction,
		ConfidenceScore: feedConfidence,
	}
}
