package client

import (
	"sync"
	"time"
)

// EndpointMetrics are the per-endpoint request counters.
type EndpointMetrics struct {
	Requests         uint64
	Successes        uint64
	Failures         uint64
	AverageLatencyMS float64
	LastRequest      time.Time
}

// MetricsSnapshot is a point-in-time copy of the client's counters.
// Counters are additive for the process lifetime and are never reset.
type MetricsSnapshot struct {
	TotalRequests      uint64
	SuccessfulRequests uint64
	FailedRequests     uint64
	AverageLatencyMS   float64
	Endpoints          map[string]EndpointMetrics
}

// aggregator accumulates request counters, globally and per endpoint.
// It answers exact queries the exported OTel instruments cannot: callers
// rely on Successes+Failures==Requests holding at every snapshot.
type aggregator struct {
	mu        sync.Mutex
	total     uint64
	success   uint64
	failure   uint64
	avgMS     float64
	endpoints map[string]*EndpointMetrics
}

func newAggregator() *aggregator {
	return &aggregator{
		endpoints: make(map[string]*EndpointMetrics),
	}
}

// ensure creates a zeroed per-endpoint entry. Called at registration so a
// snapshot lists every registered endpoint even before its first request.
func (a *aggregator) ensure(endpointID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.endpoints[endpointID]; !ok {
		a.endpoints[endpointID] = &EndpointMetrics{}
	}
}

// record accounts one completed request attempt.
func (a *aggregator) record(endpointID string, success bool, duration time.Duration) {
	ms := float64(duration.Milliseconds())

	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	if success {
		a.success++
	} else {
		a.failure++
	}
	a.avgMS += (ms - a.avgMS) / float64(a.total)

	ep, ok := a.endpoints[endpointID]
	if !ok {
		ep = &EndpointMetrics{}
		a.endpoints[endpointID] = ep
	}
	ep.Requests++
	if success {
		ep.Successes++
	} else {
		ep.Failures++
	}
	ep.AverageLatencyMS += (ms - ep.AverageLatencyMS) / float64(ep.Requests)
	ep.LastRequest = time.Now()
}

func (a *aggregator) snapshot() MetricsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := MetricsSnapshot{
		TotalRequests:      a.total,
		SuccessfulRequests: a.success,
		FailedRequests:     a.failure,
		AverageLatencyMS:   a.avgMS,
		Endpoints:          make(map[string]EndpointMetrics, len(a.endpoints)),
	}
	for id, ep := range a.endpoints {
		snap.Endpoints[id] = *ep
	}
	return snap
}
