package resilience

import (
	"sync"
	"time"
)

// DefaultPerMinute is the admission limit used when none is configured.
const DefaultPerMinute = 60

// WindowConfig configures the trailing-window rate limiter.
type WindowConfig struct {
	// PerMinute is the number of requests admitted per window span.
	// Default: DefaultPerMinute
	PerMinute int

	// Span is the length of the trailing window.
	// Default: 1 minute
	Span time.Duration
}

// Window is a trailing-window rate limiter.
//
// It keeps the timestamps of admitted requests and admits a new request only
// when fewer than PerMinute admissions remain inside the trailing span.
// Admission appends the current timestamp; rejection leaves the window
// untouched, so a rejected request consumes no quota.
type Window struct {
	config WindowConfig

	mu     sync.Mutex
	stamps []time.Time
}

// NewWindow creates a new trailing-window rate limiter.
func NewWindow(config WindowConfig) *Window {
	// Apply defaults
	if config.PerMinute <= 0 {
		config.PerMinute = DefaultPerMinute
	}
	if config.Span <= 0 {
		config.Span = time.Minute
	}

	return &Window{config: config}
}

// Allow admits or rejects a request at the current time.
func (w *Window) Allow() bool {
	return w.AllowAt(time.Now())
}

// AllowAt admits or rejects a request as of now. The check and the append
// happen under one lock so concurrent callers cannot both pass an exhausted
// window.
func (w *Window) AllowAt(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)

	if len(w.stamps) >= w.config.PerMinute {
		return false
	}

	w.stamps = append(w.stamps, now)
	return true
}

// Len returns the number of admissions inside the current window.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pruneLocked(time.Now())
	return len(w.stamps)
}

// Limit returns the configured admissions per window span.
func (w *Window) Limit() int {
	return w.config.PerMinute
}

// Reset discards all recorded admissions.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stamps = w.stamps[:0]
}

func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.config.Span)

	// Timestamps are appended in order, so find the first one still inside
	// the window and drop everything before it.
	keep := 0
	for keep < len(w.stamps) && !w.stamps[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[keep:]...)
	}
}
