package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// scoreByResponse scores each response from a lookup table.
type scoreByResponse map[string]float64

func (s scoreByResponse) Evaluate(response string, _ orchestrator.EvaluationInput) (orchestrator.Evaluation, error) {
	score, ok := s[response]
	if !ok {
		return orchestrator.Evaluation{}, &orchestrator.ScoringError{Reason: "unscored"}
	}
	var sugg []string
	if score < orchestrator.SuggestionThreshold {
		sugg = []string{"Add a concrete example."}
	}
	return orchestrator.Evaluation{Score: score, Suggestions: sugg}, nil
}

func singleProvider(t *testing.T) *orchestrator.AgentSelector {
	t.Helper()
	f := &Fixture{Providers: []FixtureProvider{{ID: "only", Capabilities: []string{"chat"}, MaxContext: 4096}}}
	reg, err := f.Registry()
	require.NoError(t, err)
	return NewSelector(reg, "only")
}

func TestReplay_Actions(t *testing.T) {
	h := NewHarness(singleProvider(t), scoreByResponse{"great": 90, "borderline": 70, "weak": 40})

	results := h.Replay([]Interaction{
		{TurnID: "1", Query: "q", Response: "great", Agent: "only"},
		{TurnID: "2", Query: "q", Response: "borderline"},
		{TurnID: "3", Query: "q", Response: "weak", Agent: "gone"},
		{TurnID: "4", Query: "q", Response: "mystery"},
	})
	require.Len(t, results, 4)

	assert.Equal(t, ActionAccept, results[0].Action)
	assert.Equal(t, ActionAccept, results[1].Action, "70 is not below the improvement threshold")
	assert.Equal(t, ActionImprove, results[2].Action)
	assert.Equal(t, "Add a concrete example.", results[2].Reason)
	assert.Equal(t, ActionReject, results[3].Action)
	assert.Equal(t, "scoring: unscored", results[3].Reason)

	for _, r := range results {
		assert.Equal(t, "only", r.Selected)
	}

	s := Summarize(results)
	assert.Equal(t, 4, s.TotalTurns)
	assert.Equal(t, 2, s.Accepted)
	assert.Equal(t, 1, s.Improved)
	assert.Equal(t, 1, s.Rejected)
	assert.InDelta(t, (90.0+70+40)/3, s.AvgScore, 1e-9)
	assert.Equal(t, 1, s.Rerouted)
	assert.Equal(t, 4, s.BySelected["only"])
}

func TestReplay_DefaultScorerRejectsBlank(t *testing.T) {
	results := NewHarness(singleProvider(t), nil).Replay([]Interaction{{TurnID: "1", Query: "q", Response: ""}})
	require.Len(t, results, 1)
	assert.Equal(t, ActionReject, results[0].Action)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalTurns)
	assert.Zero(t, s.AvgScore)
}

func TestRoutingOnly_CannotGenerate(t *testing.T) {
	_, err := routingOnly{cfg: provider.Config{ID: "x"}}.Generate(context.Background(), "hi", provider.GenerateContext{})
	var perr *provider.Error
	assert.True(t, errors.As(err, &perr))
}
