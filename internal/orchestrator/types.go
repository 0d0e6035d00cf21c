package orchestrator

// #region imports
import (
	"errors"
	"time"

	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region errors

var (
	// ErrNoProviderAvailable means every registered provider was excluded or
	// none is registered. Never retried.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrEmptyQuery rejects blank input before any provider is selected.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrEmptyResponse is the ScoringError for a blank response.
	ErrEmptyResponse = &ScoringError{Reason: "empty response"}
)

// ScoringError is a failure inside the quality scorer. The Manager treats it
// like a provider failure and falls back.
type ScoringError struct {
	Reason string
}

func (e *ScoringError) Error() string { return "scoring: " + e.Reason }

// #endregion

// #region evaluation

// EvaluationInput is what a response is judged against.
type EvaluationInput struct {
	Query string
}

// Evaluation holds the five sub-scores (0..100), their mean and the
// suggestions for every sub-score under its threshold.
type Evaluation struct {
	Score        float64  `json:"score"`
	Clarity      float64  `json:"clarity"`
	Relevance    float64  `json:"relevance"`
	Helpfulness  float64  `json:"helpfulness"`
	Tone         float64  `json:"tone"`
	Completeness float64  `json:"completeness"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Scorer evaluates a response. QualityScorer is the production implementation.
type Scorer interface {
	Evaluate(response string, in EvaluationInput) (Evaluation, error)
}

// #endregion

// #region selection

// SelectionContext is the input to AgentSelector.SelectBestAgent.
type SelectionContext struct {
	Query               string
	RequireCapabilities []provider.Capability
	PreviousAgents      []string // already tried in this call chain
	AgentPreference     string
}

// #endregion

// #region query

// QueryOptions are the per-call knobs of ProcessQuery. Nil booleans default to true.
type QueryOptions struct {
	ConversationID      string                `json:"conversation_id,omitempty"`
	AgentPreference     string                `json:"agent_preference,omitempty"`
	RequireCapabilities []provider.Capability `json:"require_capabilities,omitempty"`
	AllowFallback       *bool                 `json:"allow_fallback,omitempty"`
	AllowImprovement    *bool                 `json:"allow_improvement,omitempty"`
	PreviousAgents      []string              `json:"previous_agents,omitempty"`
}

// Bool returns a pointer to v, for QueryOptions literals.
func Bool(v bool) *bool { return &v }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// QueryResult is returned by a successful ProcessQuery.
type QueryResult struct {
	Content        string          `json:"content"`
	Agent          string          `json:"agent"`
	Quality        Evaluation      `json:"quality"`
	ConversationID string          `json:"conversation_id"`
	ResponseTime   time.Duration   `json:"-"`
	ResponseTimeMs int64           `json:"response_time_ms"`
	Suggestions    []string        `json:"suggestions,omitempty"` // only when Quality.Score < 80
	Improved       bool            `json:"improved"`
	Attempts       int             `json:"attempts"`
	Usage          *provider.Usage `json:"usage,omitempty"`
}

// #endregion

// #region attempt

// Attempt records one provider attempt within a ProcessQuery call.
type Attempt struct {
	Agent    string
	Err      error
	Duration time.Duration
}

// #endregion
