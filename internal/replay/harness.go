package replay

// #region imports
import (
	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region types

const (
	ActionAccept  = "accept"  // scored at or above the improvement threshold
	ActionImprove = "improve" // would have triggered an improvement pass
	ActionReject  = "reject"  // scoring failed, the manager would fall back
)

// Interaction is one recorded query/response pair.
type Interaction struct {
	TurnID              string
	Query               string
	Response            string
	Agent               string // provider that produced Response, may be empty
	RequireCapabilities []provider.Capability
	AgentPreference     string
}

// Result is the outcome of replaying one interaction offline.
type Result struct {
	TurnID     string                  `json:"turn_id"`
	Selected   string                  `json:"selected"`        // provider the selector picks today
	Agent      string                  `json:"agent,omitempty"` // provider recorded in the interaction
	Action     string                  `json:"action"`
	Reason     string                  `json:"reason,omitempty"`
	Evaluation orchestrator.Evaluation `json:"evaluation"`
}

// Summary aggregates a replay run.
type Summary struct {
	TotalTurns int            `json:"total_turns"`
	Accepted   int            `json:"accepted"`
	Improved   int            `json:"improved"`
	Rejected   int            `json:"rejected"`
	AvgScore   float64        `json:"avg_score"` // over non-rejected turns
	Rerouted   int            `json:"rerouted"`  // turns where Selected differs from a recorded Agent
	BySelected map[string]int `json:"by_selected"`
}

// #endregion

// #region harness

// Harness re-runs selection and scoring over recorded interactions without
// calling any provider.
type Harness struct {
	selector *orchestrator.AgentSelector
	scorer   orchestrator.Scorer
}

func NewHarness(selector *orchestrator.AgentSelector, scorer orchestrator.Scorer) *Harness {
	if scorer == nil {
		scorer = orchestrator.NewQualityScorer()
	}
	return &Harness{selector: selector, scorer: scorer}
}

// Replay evaluates every interaction in order. Interactions are independent:
// selection sees no metrics and no previous agents.
func (h *Harness) Replay(interactions []Interaction) []Result {
	results := make([]Result, 0, len(interactions))
	for _, inter := range interactions {
		r := Result{
			TurnID: inter.TurnID,
			Agent:  inter.Agent,
			Selected: h.selector.SelectBestAgent(orchestrator.SelectionContext{
				Query:               inter.Query,
				RequireCapabilities: inter.RequireCapabilities,
				AgentPreference:     inter.AgentPreference,
			}),
		}

		eval, err := h.scorer.Evaluate(inter.Response, orchestrator.EvaluationInput{Query: inter.Query})
		switch {
		case err != nil:
			r.Action = ActionReject
			r.Reason = err.Error()
		case eval.Score < orchestrator.ImproveThreshold:
			r.Action = ActionImprove
			if len(eval.Suggestions) > 0 {
				r.Reason = eval.Suggestions[0]
			}
			r.Evaluation = eval
		default:
			r.Action = ActionAccept
			r.Evaluation = eval
		}
		results = append(results, r)
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{
		TotalTurns: len(results),
		BySelected: make(map[string]int),
	}
	var total float64
	for _, r := range results {
		s.BySelected[r.Selected]++
		if r.Agent != "" && r.Agent != r.Selected {
			s.Rerouted++
		}
		switch r.Action {
		case ActionAccept:
			s.Accepted++
		case ActionImprove:
			s.Improved++
		case ActionReject:
			s.Rejected++
			continue
		}
		total += r.Evaluation.Score
	}
	if scored := s.Accepted + s.Improved; scored > 0 {
		s.AvgScore = total / float64(scored)
	}
	return s
}

// #endregion
