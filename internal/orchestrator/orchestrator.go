package orchestrator

// #region imports
import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielpatrickdp/orchestra/internal/conversation"
	"github.com/danielpatrickdp/orchestra/internal/logging"
	"github.com/danielpatrickdp/orchestra/internal/metrics"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region config

// Config holds the Manager's tunables.
type Config struct {
	DefaultProvider string
	MaxAttempts     int           // total providers tried per query, first included
	ProviderTimeout time.Duration // per attempt, improvement included; 0 = none
	HistoryWindow   int           // turns fed back as context; 0 = all
	SystemPrompt    string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultProvider: "openai",
		MaxAttempts:     DefaultMaxAttempts,
		ProviderTimeout: 30 * time.Second,
		HistoryWindow:   10,
		SystemPrompt:    "You are a helpful business assistant. Answer clearly and concretely.",
	}
}

// Deps are the collaborators a Manager coordinates. Only Providers is
// required; nil stores get in-memory defaults.
type Deps struct {
	Providers     *provider.Registry
	Conversations conversation.Store
	Metrics       *metrics.Store
	Scorer        Scorer
	Recorder      *metrics.Recorder // nil = no Prometheus export
	Provenance    *sql.DB           // nil = no attempt log
	Logger        *zerolog.Logger   // nil = discard
	Tracer        trace.Tracer
}

// #endregion

// #region manager-struct

// Manager is the top-level coordinator: select, invoke, score, improve,
// persist, with a bounded fallback to another provider on failure.
type Manager struct {
	cfg           Config
	providers     *provider.Registry
	conversations conversation.Store
	metrics       *metrics.Store
	scorer        Scorer
	selector      *AgentSelector
	policy        FallbackPolicy
	recorder      *metrics.Recorder
	provenance    *sql.DB
	log           zerolog.Logger
	tracer        trace.Tracer
}

// #endregion

// #region constructor

// NewManager wires a Manager. The provenance table is created when a
// database is passed.
func NewManager(cfg Config, deps Deps) (*Manager, error) {
	if deps.Providers == nil {
		return nil, errors.New("orchestrator: provider registry is required")
	}
	if deps.Conversations == nil {
		deps.Conversations = conversation.NewMemoryStore(0)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewStore()
	}
	if deps.Scorer == nil {
		deps.Scorer = NewQualityScorer()
	}
	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = *deps.Logger
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("orchestra/orchestrator")
	}
	if deps.Provenance != nil {
		if err := logging.EnsureSchema(deps.Provenance); err != nil {
			return nil, err
		}
	}

	return &Manager{
		cfg:           cfg,
		providers:     deps.Providers,
		conversations: deps.Conversations,
		metrics:       deps.Metrics,
		scorer:        deps.Scorer,
		selector:      NewAgentSelector(deps.Providers, deps.Metrics, cfg.DefaultProvider),
		policy:        NewFallbackPolicy(cfg.MaxAttempts),
		recorder:      deps.Recorder,
		provenance:    deps.Provenance,
		log:           logging.Component(logger, "orchestrator"),
		tracer:        deps.Tracer,
	}, nil
}

// #endregion

// #region accessors

func (m *Manager) Providers() *provider.Registry { return m.providers }

// GetConversationHistory returns the stored turns in append order.
func (m *Manager) GetConversationHistory(conversationID string) ([]conversation.Turn, error) {
	return m.conversations.History(conversationID)
}

// GetAgentMetrics returns rolling metrics for a provider, nil if it never answered.
func (m *Manager) GetAgentMetrics(providerID string) *metrics.AgentMetrics {
	return m.metrics.Snapshot(providerID)
}

// #endregion

// #region process-query

// ProcessQuery answers query with the best provider, falling back to a
// different one on failure until the attempt budget is spent. A blank
// ConversationID starts a new conversation.
func (m *Manager) ProcessQuery(ctx context.Context, query string, opts QueryOptions) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	convID := opts.ConversationID
	if convID == "" {
		convID = uuid.New().String()
	}
	queryID := uuid.New().String()

	ctx, span := m.tracer.Start(ctx, "orchestrator.process_query", trace.WithAttributes(
		attribute.String("conversation.id", convID),
		attribute.String("query.id", queryID),
	))
	defer span.End()

	fail := func(err error) (*QueryResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	history, err := m.conversations.History(convID)
	if err != nil {
		return fail(fmt.Errorf("load history: %w", err))
	}

	allowFallback := boolOr(opts.AllowFallback, true)
	allowImprove := boolOr(opts.AllowImprovement, true)

	previous := append([]string(nil), opts.PreviousAgents...)
	excluded := make(map[string]bool, len(previous))
	for _, id := range previous {
		excluded[id] = true
	}

	var attempts []Attempt
	for {
		id := m.selector.SelectBestAgent(SelectionContext{
			Query:               query,
			RequireCapabilities: opts.RequireCapabilities,
			PreviousAgents:      previous,
			AgentPreference:     opts.AgentPreference,
		})
		adapter, ok := m.providers.Get(id)
		if !ok || excluded[id] {
			m.log.Warn().Str("selected", id).Msg("no provider available")
			return fail(ErrNoProviderAvailable)
		}

		m.log.Debug().Str("provider", id).Int("attempt", len(attempts)+1).Msg("selected")

		out, err := m.attempt(ctx, adapter, query, history, allowImprove, queryID, convID, len(attempts)+1)
		attempts = append(attempts, Attempt{Agent: id, Err: err, Duration: out.elapsed})
		if err == nil {
			span.SetAttributes(
				attribute.String("provider.id", id),
				attribute.Int("attempts", len(attempts)),
				attribute.Float64("quality.score", out.eval.Score),
			)
			return m.persist(query, convID, id, out, len(attempts)), nil
		}

		m.log.Warn().Err(err).Str("provider", id).Int("attempt", len(attempts)).Msg("attempt failed")
		if !m.policy.ShouldFallback(attempts, allowFallback) {
			return fail(err)
		}

		excluded[id] = true
		previous = append(previous, id)
		if !m.hasCandidate(excluded) {
			// Nothing left to fall back to: the provider failure is the answer.
			return fail(err)
		}
		m.recorder.Fallback()
	}
}

// hasCandidate reports whether any registered provider is still untried.
func (m *Manager) hasCandidate(excluded map[string]bool) bool {
	for _, a := range m.providers.List() {
		if !excluded[a.ID()] {
			return true
		}
	}
	return false
}

// #endregion

// #region attempt

type attemptOutcome struct {
	content  string
	eval     Evaluation
	usage    *provider.Usage
	improved bool
	elapsed  time.Duration
}

// attempt runs INVOKE, SCORE and the optional IMPROVE against one provider.
// An IMPROVE failure keeps the original answer.
func (m *Manager) attempt(
	ctx context.Context,
	a provider.Adapter,
	query string,
	history []conversation.Turn,
	allowImprove bool,
	queryID, convID string,
	attemptNum int,
) (attemptOutcome, error) {
	start := time.Now()
	if m.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ProviderTimeout)
		defer cancel()
	}

	cfg := a.Config()
	gc := buildContext(m.cfg.SystemPrompt, query, history, m.cfg.HistoryWindow, cfg.MaxContext)
	entry := logging.AttemptEntry{
		QueryID:        queryID,
		ConversationID: convID,
		Provider:       a.ID(),
		AttemptNum:     attemptNum,
	}

	resp, err := m.generate(ctx, a, query, gc, logging.StageInvoke)
	if err != nil {
		m.logAttempt(entry, logging.StageInvoke, 0, time.Since(start), err)
		return attemptOutcome{elapsed: time.Since(start)}, err
	}

	eval, err := m.scorer.Evaluate(resp.Content, EvaluationInput{Query: query})
	if err != nil {
		m.logAttempt(entry, logging.StageScore, 0, time.Since(start), err)
		return attemptOutcome{elapsed: time.Since(start)}, fmt.Errorf("provider %s: %w", a.ID(), err)
	}
	out := attemptOutcome{content: resp.Content, eval: eval, usage: resp.Usage}
	m.logAttempt(entry, logging.StageInvoke, eval.Score, time.Since(start), nil)

	if allowImprove && eval.Score < ImproveThreshold {
		m.recorder.Improvement()
		improveStart := time.Now()
		prompt := improvementPrompt(query, resp.Content, eval.Suggestions)

		better, err := m.generate(ctx, a, prompt, gc, logging.StageImprove)
		if err == nil {
			var reeval Evaluation
			reeval, err = m.scorer.Evaluate(better.Content, EvaluationInput{Query: query})
			if err == nil {
				out.content, out.eval, out.improved = better.Content, reeval, true
				if better.Usage != nil {
					out.usage = better.Usage
				}
			}
		}
		if err != nil {
			m.log.Warn().Err(err).Str("provider", a.ID()).Msg("improvement failed, keeping original")
		} else {
			m.log.Debug().Str("provider", a.ID()).
				Float64("before", eval.Score).Float64("after", out.eval.Score).
				Msg("improved")
		}
		m.logAttempt(entry, logging.StageImprove, out.eval.Score, time.Since(improveStart), err)
	}

	out.elapsed = time.Since(start)
	return out, nil
}

// generate is one traced, metered provider call.
func (m *Manager) generate(ctx context.Context, a provider.Adapter, prompt string, gc provider.GenerateContext, stage string) (*provider.Response, error) {
	ctx, span := m.tracer.Start(ctx, "provider.generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("provider.id", a.ID()),
		attribute.String("stage", stage),
		attribute.Int("history.messages", len(gc.History)),
	)

	start := time.Now()
	resp, err := a.Generate(ctx, prompt, gc)
	if err != nil {
		m.recorder.ObserveRequest(a.ID(), metrics.OutcomeError, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	m.recorder.ObserveRequest(a.ID(), metrics.OutcomeSuccess, time.Since(start))
	if resp.Usage != nil {
		span.SetAttributes(attribute.Int("usage.total_tokens", resp.Usage.TotalTokens))
	}
	return resp, nil
}

// #endregion

// #region persist

// persist appends the turn pair, pushes metric samples and builds the result.
// Storage failures are logged; the answer is still returned.
func (m *Manager) persist(query, convID, agent string, out attemptOutcome, attempts int) *QueryResult {
	now := time.Now().UTC()
	score := out.eval.Score
	if err := m.conversations.Append(convID,
		conversation.Turn{Role: conversation.RoleUser, Content: query, Timestamp: now},
		conversation.Turn{Role: conversation.RoleAssistant, Content: out.content, Agent: agent, Quality: &score, Timestamp: now},
	); err != nil {
		m.log.Error().Err(err).Str("conversation", convID).Msg("failed to persist turns")
	}

	engagement := 0
	if h, err := m.conversations.History(convID); err == nil {
		engagement = len(h)
	}
	m.metrics.Record(agent, metrics.Sample{
		ResponseTimeMs: float64(out.elapsed.Milliseconds()),
		Satisfaction:   out.eval.Score,
		Accuracy:       out.eval.Relevance,
		Engagement:     float64(engagement),
	})
	m.recorder.ObserveQuality(agent, out.eval.Score)

	res := &QueryResult{
		Content:        out.content,
		Agent:          agent,
		Quality:        out.eval,
		ConversationID: convID,
		ResponseTime:   out.elapsed,
		ResponseTimeMs: out.elapsed.Milliseconds(),
		Improved:       out.improved,
		Attempts:       attempts,
		Usage:          out.usage,
	}
	if out.eval.Score < SuggestionThreshold {
		res.Suggestions = out.eval.Suggestions
	}

	m.log.Info().
		Str("provider", agent).
		Str("conversation", convID).
		Float64("quality", out.eval.Score).
		Bool("improved", out.improved).
		Int("attempts", attempts).
		Dur("elapsed", out.elapsed).
		Msg("query answered")
	return res
}

func (m *Manager) logAttempt(entry logging.AttemptEntry, stage string, quality float64, d time.Duration, err error) {
	if m.provenance == nil {
		return
	}
	entry.Stage = stage
	entry.Quality = quality
	entry.DurationMs = d.Milliseconds()
	entry.Outcome = logging.OutcomeSuccess
	if err != nil {
		entry.Outcome = logging.OutcomeError
		entry.Error = err.Error()
	}
	if lerr := logging.LogAttempt(m.provenance, entry); lerr != nil {
		m.log.Error().Err(lerr).Msg("failed to record attempt")
	}
}

// #endregion
