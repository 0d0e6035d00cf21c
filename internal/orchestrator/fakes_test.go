package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #region fake-adapter

type call struct {
	prompt  string
	history []provider.Message
}

// fakeAdapter answers with reply(n) on its n-th call (0-based).
type fakeAdapter struct {
	cfg   provider.Config
	reply func(ctx context.Context, n int) (string, error)

	mu    sync.Mutex
	calls []call
}

func (f *fakeAdapter) ID() string              { return f.cfg.ID }
func (f *fakeAdapter) Config() provider.Config { return f.cfg }

func (f *fakeAdapter) Generate(ctx context.Context, prompt string, gc provider.GenerateContext) (*provider.Response, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, call{prompt: prompt, history: gc.History})
	f.mu.Unlock()

	text, err := f.reply(ctx, n)
	if err != nil {
		return nil, err
	}
	return &provider.Response{Content: text, Usage: &provider.Usage{TotalTokens: 10}}, nil
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func answering(id, text string, caps ...provider.Capability) *fakeAdapter {
	return &fakeAdapter{
		cfg:   provider.Config{ID: id, Name: id, Capabilities: caps, MaxContext: 4096},
		reply: func(context.Context, int) (string, error) { return text, nil },
	}
}

func failing(id string) *fakeAdapter {
	return &fakeAdapter{
		cfg: provider.Config{ID: id, Name: id, MaxContext: 4096},
		reply: func(context.Context, int) (string, error) {
			return "", &provider.Error{ProviderID: id, StatusCode: 500, Detail: "upstream down"}
		},
	}
}

func registry(t *testing.T, adapters ...provider.Adapter) *provider.Registry {
	t.Helper()
	reg, err := provider.NewRegistry(adapters...)
	require.NoError(t, err)
	return reg
}

// #endregion

// #region stub-scorer

// stubScorer returns scores[i] for its i-th evaluation, repeating the last.
type stubScorer struct {
	mu     sync.Mutex
	scores []float64
	n      int
}

func (s *stubScorer) Evaluate(response string, _ EvaluationInput) (Evaluation, error) {
	if response == "" {
		return Evaluation{}, ErrEmptyResponse
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.n
	if i >= len(s.scores) {
		i = len(s.scores) - 1
	}
	s.n++
	v := s.scores[i]
	e := Evaluation{Score: v, Clarity: v, Relevance: v, Helpfulness: v, Tone: v, Completeness: v}
	e.Suggestions = suggestionsFor(e)
	return e, nil
}

// #endregion
