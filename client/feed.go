package client

import (
	"encoding/json"
	"time"
)

// feedConfidence is the fixed confidence score attached to fetched feeds.
// Source-specific scoring belongs to the downstream compliance stores.
const feedConfidence = 0.95

// RegulatoryDataFeed is one fetched batch of regulatory data.
type RegulatoryDataFeed struct {
	// Source is the display name of the originating endpoint.
	Source string `json:"source"`

	// DataType categorizes the feed content.
	DataType string `json:"data_type"`

	// Content is the decoded JSON response. Responses that are not valid
	// JSON are wrapped as {"content": <raw text>, "raw": true} rather
	// than failing the fetch.
	Content any `json:"content"`

	// Timestamp is when the feed was fetched.
	Timestamp time.Time `json:"timestamp"`

	// Jurisdiction is taken from the query parameters, "GLOBAL" when absent.
	Jurisdiction string `json:"jurisdiction"`

	// ConfidenceScore is a fixed per-feed score.
	ConfidenceScore float64 `json:"confidence_score"`
}

// ComplianceUpdate is one regulatory change notice fetched from an endpoint.
type ComplianceUpdate struct {
	RegulationID    string    `json:"regulation_id"`
	UpdateType      string    `json:"update_type"`
	Description     string    `json:"description"`
	EffectiveDate   time.Time `json:"effective_date"`
	ImpactLevel     string    `json:"impact_level"`
	AffectedSectors []string  `json:"affected_sectors"`
}

// decodeContent decodes a response body, degrading to a raw-text wrapper
// when the body is not valid JSON.
func decodeContent(body []byte) any {
	var content any
	if err := json.Unmarshal(body, &content); err != nil {
		return map[string]any{
			"content": string(body),
			"raw":     true,
		}
	}
	return content
}
