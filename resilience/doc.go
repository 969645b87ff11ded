// Package resilience provides the guard primitives used when calling
// external regulatory APIs.
//
// Three patterns are provided:
//
//   - Circuit Breaker: stops requests to a failing endpoint after a
//     failure threshold is reached, and probes recovery after a cool-down.
//
//   - Window: a trailing-window rate limiter counting requests in the last
//     60 seconds. This is deliberately not a token bucket: regulatory data
//     sources publish per-minute quotas, and a trailing count mirrors how
//     those quotas are enforced server-side. Bursts that straddle a window
//     boundary are admitted.
//
//   - Retry: retries an operation with exponential backoff and jitter,
//     bounded by a per-endpoint retry policy.
//
// Each primitive guards a single endpoint. Callers that talk to many
// endpoints hold one instance per endpoint id.
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    MaxFailures: 5,
//	    CoolDown:    time.Minute,
//	})
//
//	if err := cb.Allow(); err != nil {
//	    return err // resilience.ErrCircuitOpen
//	}
//	if err := call(); err != nil {
//	    cb.RecordFailure()
//	    return err
//	}
//	cb.RecordSuccess()
package resilience
