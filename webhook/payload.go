package webhook

import (
	"encoding/json"
	"fmt"
	"time"
)

// Recognized event types. Payloads carrying any other event type are
// logged and ignored.
const (
	EventRegulatoryChange   = "regulatory_change"
	EventComplianceDeadline = "compliance_deadline"
	EventViolationAlert     = "violation_alert"
)

// Payload is an inbound callback from a regulatory authority.
type Payload struct {
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Source    string          `json:"source"`
	Signature string          `json:"signature,omitempty"`
}

// RegulatoryChange announces an amendment to a regulation.
type RegulatoryChange struct {
	RegulationID string `json:"regulation_id"`
	ChangeType   string `json:"change_type"`
	ImpactLevel  string `json:"impact_level"`
}

// ComplianceDeadline announces an upcoming filing or remediation deadline.
type ComplianceDeadline struct {
	DeadlineDate string `json:"deadline_date"`
	RegulationID string `json:"regulation_id"`
	Requirements string `json:"requirements"`
}

// ViolationAlert reports a detected compliance violation.
type ViolationAlert struct {
	ViolationType string `json:"violation_type"`
	Severity      string `json:"severity"`
	EntityID      string `json:"entity_id"`
}

func parseRegulatoryChange(data json.RawMessage) (RegulatoryChange, error) {
	var event RegulatoryChange
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.RegulationID == "" {
		return event, fmt.Errorf("%w: regulation_id is required", ErrMalformedPayload)
	}
	if event.ChangeType == "" {
		event.ChangeType = "unknown"
	}
	if event.ImpactLevel == "" {
		event.ImpactLevel = "medium"
	}
	return event, nil
}

func parseComplianceDeadline(data json.RawMessage) (ComplianceDeadline, error) {
	var event ComplianceDeadline
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.DeadlineDate == "" {
		return event, fmt.Errorf("%w: deadline_date is required", ErrMalformedPayload)
	}
	if event.RegulationID == "" {
		event.RegulationID = "unknown"
	}
	if event.Requirements == "" {
		event.Requirements = "see documentation"
	}
	return event, nil
}

func parseViolationAlert(data json.RawMessage) (ViolationAlert, error) {
	var event ViolationAlert
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.ViolationType == "" {
		return event, fmt.Errorf("%w: violation_type is required", ErrMalformedPayload)
	}
	if event.Severity == "" {
		event.Severity = "medium"
	}
	if event.EntityID == "" {
		event.EntityID = "unknown"
	}
	return event, nil
}
