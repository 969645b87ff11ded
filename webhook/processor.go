// Package webhook validates and dispatches inbound callbacks from
// regulatory authorities.
//
// A payload is verified against a per-source HMAC-SHA256 secret, parsed into
// a typed event by its event_type, and handed to the registered handler.
// Unknown event types are logged and ignored rather than rejected, so new
// upstream event types do not break delivery of the ones we understand.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jonwraymond/regops/observe"
)

// Processor validates and dispatches webhook payloads.
type Processor struct {
	secrets map[string][]byte
	logger  observe.Logger

	onRegulatoryChange   func(ctx context.Context, event RegulatoryChange) error
	onComplianceDeadline func(ctx context.Context, event ComplianceDeadline) error
	onViolationAlert     func(ctx context.Context, event ViolationAlert) error
}

// Option configures a Processor.
type Option func(*Processor)

// WithSecret registers the HMAC secret for payloads from the given source.
func WithSecret(source string, key []byte) Option {
	return func(p *Processor) {
		p.secrets[source] = key
	}
}

// WithLogger sets the processor logger.
func WithLogger(logger observe.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithRegulatoryChangeHandler replaces the regulatory_change handler.
func WithRegulatoryChangeHandler(fn func(ctx context.Context, event RegulatoryChange) error) Option {
	return func(p *Processor) {
		p.onRegulatoryChange = fn
	}
}

// WithComplianceDeadlineHandler replaces the compliance_deadline handler.
func WithComplianceDeadlineHandler(fn func(ctx context.Context, event ComplianceDeadline) error) Option {
	return func(p *Processor) {
		p.onComplianceDeadline = fn
	}
}

// WithViolationAlertHandler replaces the violation_alert handler.
func WithViolationAlertHandler(fn func(ctx context.Context, event ViolationAlert) error) Option {
	return func(p *Processor) {
		p.onViolationAlert = fn
	}
}

// NewProcessor creates a webhook processor. Without handler options, events
// are logged and otherwise dropped; real business action belongs to the
// registered handlers.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		secrets: make(map[string][]byte),
		logger:  observe.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process verifies and dispatches one payload.
//
// Signature policy: a payload carrying a signature must verify against the
// secret registered for its source; carrying a signature we cannot verify is
// ErrInvalidSignature. Unsigned payloads are accepted (sources without
// shared secrets exist), so requiring signatures is the caller's decision.
func (p *Processor) Process(ctx context.Context, payload Payload) error {
	if payload.Signature != "" {
		if !p.verify(payload) {
			p.logger.Warn(ctx, "webhook signature rejected",
				observe.String("source", payload.Source),
				observe.String("event_type", payload.EventType),
			)
			return ErrInvalidSignature
		}
	}

	switch payload.EventType {
	case EventRegulatoryChange:
		event, err := parseRegulatoryChange(payload.Data)
		if err != nil {
			return err
		}
		return p.handleRegulatoryChange(ctx, event)

	case EventComplianceDeadline:
		event, err := parseComplianceDeadline(payload.Data)
		if err != nil {
			return err
		}
		return p.handleComplianceDeadline(ctx, event)

	case EventViolationAlert:
		event, err := parseViolationAlert(payload.Data)
		if err != nil {
			return err
		}
		return p.handleViolationAlert(ctx, event)

	default:
		p.logger.Warn(ctx, "unknown webhook event type ignored",
			observe.String("event_type", payload.EventType),
			observe.String("source", payload.Source),
		)
		return nil
	}
}

// Sign computes the hex HMAC-SHA256 signature a source should attach to the
// given payload. Exposed for producers and tests.
func Sign(key []byte, payload Payload) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(canonicalBytes(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *Processor) verify(payload Payload) bool {
	key, ok := p.secrets[payload.Source]
	if !ok {
		return false
	}

	want, err := hex.DecodeString(payload.Signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(canonicalBytes(payload))
	return hmac.Equal(mac.Sum(nil), want)
}

// canonicalBytes is the signed representation of a payload: the event type,
// RFC3339 timestamp, source, and raw data joined by newlines. The signature
// field itself is excluded.
func canonicalBytes(payload Payload) []byte {
	var b []byte
	b = append(b, payload.EventType...)
	b = append(b, '\n')
	b = append(b, payload.Timestamp.UTC().Format(time.RFC3339)...)
	b = append(b, '\n')
	b = append(b, payload.Source...)
	b = append(b, '\n')
	b = append(b, payload.Data...)
	return b
}

func (p *Processor) handleRegulatoryChange(ctx context.Context, event RegulatoryChange) error {
	p.logger.Info(ctx, "regulatory change received",
		observe.String("regulation_id", event.RegulationID),
		observe.String("change_type", event.ChangeType),
		observe.String("impact_level", event.ImpactLevel),
	)
	if p.onRegulatoryChange != nil {
		return p.onRegulatoryChange(ctx, event)
	}
	return nil
}

func (p *Processor) handleComplianceDeadline(ctx context.Context, event ComplianceDeadline) error {
	p.logger.Info(ctx, "compliance deadline received",
		observe.String("deadline_date", event.DeadlineDate),
		observe.String("regulation_id", event.RegulationID),
		observe.String("requirements", event.Requirements),
	)
	if p.onComplianceDeadline != nil {
		return p.onComplianceDeadline(ctx, event)
	}
	return nil
}

func (p *Processor) handleViolationAlert(ctx context.Context, event ViolationAlert) error {
	p.logger.Warn(ctx, "violation alert received",
		observe.String("violation_type", event.ViolationType),
		observe.String("severity", event.Severity),
		observe.String("entity_id", event.EntityID),
	)
	if p.onViolationAlert != nil {
		return p.onViolationAlert(ctx, event)
	}
	return nil
}
