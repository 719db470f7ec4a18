// Package model defines the domain types that flow through the epiwatch
// pipeline: raw announcements as fetched, normalized signals after
// extraction, and the anomalies raised by analysis.
package model

// Classification is the signal label assigned to a normalized event.
type Classification string

const (
	ClassConfirmedOutbreak Classification = "confirmed_outbreak"
	ClassResearchUpdate    Classification = "research_update"
	ClassEarlySignal       Classification = "early_signal"
)

// RawEvent is one announcement as fetched, before normalization.
//
// PublishedAt holds whatever date string the source gave us at fetch time.
// It is normalized to RFC 3339 by the orchestrator before persistence.
type RawEvent struct {
	ExternalID  string // stable within a source; falls back to the URL
	Title       string
	Content     string // equals Title when the source has no body text
	RawURL      string // always absolute
	PublishedAt string
}

// Extraction is the uniform output of an extraction strategy, whether
// rule-based or model-backed.
type Extraction struct {
	Diseases       []string
	Locations      []string
	Assessment     string
	Confidence     float64
	Classification Classification
}

// NormalizedEvent is the classified form of a RawEvent.
type NormalizedEvent struct {
	Title          string
	Summary        string
	Diseases       []string // canonical names, deduplicated
	Locations      []string // canonical country names, deduplicated
	Classification Classification
	Confidence     float64 // 0.0 - 1.0
	AssessmentText string  // human-readable rationale, never empty
	SourceTier     int     // 1 = official, higher = lower trust
}

// Anomaly severity levels.
const (
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// AnomalyGlobalSpike is raised when total daily signal volume spikes.
const AnomalyGlobalSpike = "global_spike"

// Anomaly is a statistical alert produced by the detector. It is forwarded
// to the alert sink immediately and not otherwise retained.
type Anomaly struct {
	Type      string
	Severity  string
	Message   string
	Timestamp string // RFC 3339
}
