package orchestrator

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreClarity(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 20))
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"short-sentences", "Short sentence. Another one.", 100},
		{"twenty-word-sentence", long + ".", 90},
		{"technical-terms", "Use the API and SDK.", 90},
		{"russian-terms", "Алгоритм и протокол.", 90},
		{"floor-at-zero", strings.Repeat("word ", 100), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreClarity(tt.response); got != tt.want {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestScoreRelevance(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		response string
		want     float64
	}{
		{"three-of-four", "Explain marketing budget planning", "Marketing budget planning starts with goals.", 75},
		{"no-keywords-is-neutral", "how are you", "fine", 50},
		{"none-matched", "quarterly revenue forecast", "Hello there.", 0},
		{"russian", "стратегия продвижения бренда", "Стратегия продвижения строится вокруг бренда.", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreRelevance(tt.query, tt.response); got != tt.want {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestScoreRelevance_OnlyFirstTenQueryKeywords(t *testing.T) {
	query := "alpha1 bravo2 charlie3 delta4 echo5 foxtrot6 golf7 hotel8 india9 juliet10 kilo11 lima12"
	assert.Equal(t, 0.0, ScoreRelevance(query, "kilo11 lima12"))
	assert.Equal(t, 20.0, ScoreRelevance(query, "alpha1 bravo2"))
}

func TestScoreHelpfulness(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"all-four", "For example, do this. Then finish. See https://example.com. In summary, done.", 100},
		{"none", "Plain text.", 0},
		{"example-only-ru", "Например, ROI считается так.", 25},
		{"numbered-steps", "1. Collect data\n2. Divide", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreHelpfulness(tt.response); got != tt.want {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestScoreTone(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"neutral", "Here is the answer.", 70},
		{"polite-ru", "Спасибо за вопрос!", 90},
		{"refusal-ru", "К сожалению, я не могу помочь.", 40},
		{"both", "Thank you, but sorry, I cannot.", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreTone(tt.response); got != tt.want {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestScoreCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		response string
		want     float64
	}{
		{"no-intent", "Tell me a joke", "Why did the chicken cross the road?", 100},
		{"why-answered", "Почему растут продажи?", "Потому что спрос вырос.", 100},
		{"why-unanswered", "Почему растут продажи?", "Спрос вырос.", 0},
		{"how-and-calculate", "Как рассчитать ROI?",
			"ROI = (прибыль - затраты) / затраты × 100%. Сначала соберите данные, затем примените формулу.", 75},
		{"how-much", "How much does the plan cost?", "First, pick a plan. You can pay 49 USD per month.", 100},
		{"how-much-partial", "How much does the plan cost?", "It costs 49 USD per month.", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreCompleteness(tt.query, tt.response); got != tt.want {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestEvaluate_CompositeIsMeanAndBounded(t *testing.T) {
	s := NewQualityScorer()
	responses := []string{
		"ok",
		"К сожалению, я не могу помочь с API, SDK, JSON и SQL запросами прямо сейчас.",
		"For example, first collect data. Then compute ROI = profit / cost. See https://example.com. In summary, it is simple.",
		strings.Repeat("very long sentence without any punctuation at all ", 30),
	}
	for _, r := range responses {
		e, err := s.Evaluate(r, EvaluationInput{Query: "How to calculate ROI for marketing campaigns?"})
		require.NoError(t, err)

		for _, v := range []float64{e.Clarity, e.Relevance, e.Helpfulness, e.Tone, e.Completeness, e.Score} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
		mean := (e.Clarity + e.Relevance + e.Helpfulness + e.Tone + e.Completeness) / 5
		assert.True(t, math.Abs(mean-e.Score) < 1e-9, "score %v != mean %v", e.Score, mean)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	s := NewQualityScorer()
	in := EvaluationInput{Query: "Как рассчитать ROI?"}
	resp := "Сначала посчитайте прибыль. Затем разделите на затраты."

	a, err := s.Evaluate(resp, in)
	require.NoError(t, err)
	b, err := s.Evaluate(resp, in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEvaluate_EmptyResponse(t *testing.T) {
	_, err := NewQualityScorer().Evaluate("  \n ", EvaluationInput{Query: "q"})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	var se *ScoringError
	assert.ErrorAs(t, err, &se)
}

func TestEvaluate_SuggestionsFollowThresholds(t *testing.T) {
	e := Evaluation{Clarity: 69, Relevance: 70, Helpfulness: 49, Tone: 90, Completeness: 100}
	got := suggestionsFor(e)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "shorter sentences")
	assert.Contains(t, got[1], "example")

	assert.Empty(t, suggestionsFor(Evaluation{Clarity: 70, Relevance: 70, Helpfulness: 50, Tone: 70, Completeness: 70}))
}
