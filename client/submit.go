package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonwraymond/regops/observe"
	"github.com/jonwraymond/regops/resilience"
)

// reportPath is the compliance report resource relative to every
// endpoint's base URL.
const reportPath = "/compliance-reports"

// SubmitComplianceReport posts a compliance report to a registered endpoint
// and returns the authority's submission id. Authorities that acknowledge
// without an id (or with a body that isn't JSON) get a locally generated
// one so the submission is still traceable.
func (c *Client) SubmitComplianceReport(ctx context.Context, endpointID string, report any) (string, error) {
	ep, ok := c.registry.Get(endpointID)
	if !ok {
		return "", ErrEndpointNotFound
	}
	if err := c.breaker(ep.ID).Allow(); err != nil {
		return "", err
	}
	if !c.window(ep.ID).Allow() {
		return "", resilience.ErrRateLimitExceeded
	}

	body, err := c.do(ctx, ep, http.MethodPost, reportPath, nil, report)
	if err != nil {
		return "", err
	}

	var ack struct {
		SubmissionID string `json:"submission_id"`
	}
	if err := json.Unmarshal(body, &ack); err == nil && ack.SubmissionID != "" {
		return ack.SubmissionID, nil
	}

	id := uuid.NewString()
	c.logger.Debug(ctx, "submission accepted without id, generated one",
		observe.String("endpoint.id", ep.ID),
		observe.String("submission_id", id),
	)
	return id, nil
}
