package logging

import "time"

// Attempt stages.
const (
	StageInvoke  = "invoke"
	StageScore   = "score"
	StageImprove = "improve"
)

// Attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// #region attempt-entry
// AttemptEntry is a single row in the attempt_log table: one provider call
// made while answering a query.
type AttemptEntry struct {
	QueryID        string
	ConversationID string
	Provider       string
	AttemptNum     int
	Stage          string
	Outcome        string
	Quality        float64 // 0 when the call never reached scoring
	DurationMs     int64
	Error          string
	CreatedAt      time.Time
}

// #endregion attempt-entry

// #region provider-summary
// ProviderSummary aggregates attempt_log rows per provider.
type ProviderSummary struct {
	Provider      string
	Attempts      int
	Successes     int
	Failures      int
	AvgQuality    float64 // over successful attempts
	AvgDurationMs float64
	LastSeen      time.Time
}

// #endregion provider-summary
