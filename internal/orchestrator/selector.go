package orchestrator

// #region imports
import (
	"github.com/danielpatrickdp/orchestra/internal/metrics"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region weights

const (
	baseFitness        = 50.0
	capabilityBonus    = 10.0
	longContextBonus   = 20.0
	visionBonus        = 20.0
	codeBonus          = 15.0
	longContextMinimum = 8000 // tokens
)

// #endregion

// #region selector

// AgentSelector ranks registered providers for a query. Stateless per call:
// the only input beyond the context is the metrics store it reads.
type AgentSelector struct {
	providers *provider.Registry
	metrics   *metrics.Store // nil = no satisfaction bonus
	defaultID string
}

// NewAgentSelector returns a selector over reg. defaultID is returned when
// no provider qualifies.
func NewAgentSelector(reg *provider.Registry, m *metrics.Store, defaultID string) *AgentSelector {
	return &AgentSelector{providers: reg, metrics: m, defaultID: defaultID}
}

// #endregion

// #region select-best

// SelectBestAgent returns the highest-scoring provider not in
// sc.PreviousAgents. Capabilities only add score, they never filter, so a
// provider lacking a required capability can still win. Ties go to the
// provider registered first. Returns the default id when nothing qualifies.
func (s *AgentSelector) SelectBestAgent(sc SelectionContext) string {
	excluded := make(map[string]bool, len(sc.PreviousAgents))
	for _, id := range sc.PreviousAgents {
		excluded[id] = true
	}

	if sc.AgentPreference != "" && !excluded[sc.AgentPreference] {
		if _, ok := s.providers.Get(sc.AgentPreference); ok {
			return sc.AgentPreference
		}
	}

	required := requiredCapabilities(sc.Query, sc.RequireCapabilities)

	best := ""
	bestScore := 0.0
	for _, a := range s.providers.List() {
		id := a.ID()
		if excluded[id] {
			continue
		}
		score := s.fitness(a.Config(), required)
		if best == "" || score > bestScore {
			best, bestScore = id, score
		}
	}

	if best == "" {
		return s.defaultID
	}
	return best
}

// Fitness exposes the score SelectBestAgent ranks by, for diagnostics.
func (s *AgentSelector) Fitness(cfg provider.Config, query string, extra []provider.Capability) float64 {
	return s.fitness(cfg, requiredCapabilities(query, extra))
}

func (s *AgentSelector) fitness(cfg provider.Config, required []provider.Capability) float64 {
	score := baseFitness

	var needLong, needVision, needCode bool
	for _, c := range required {
		if cfg.Supports(c) {
			score += capabilityBonus
		}
		switch c {
		case provider.CapabilityLongContext:
			needLong = true
		case provider.CapabilityVision:
			needVision = true
		case provider.CapabilityCode:
			needCode = true
		}
	}

	if s.metrics != nil {
		if avg, ok := s.metrics.AverageSatisfaction(cfg.ID); ok {
			score += avg / 2
		}
	}

	if needLong && cfg.MaxContext > longContextMinimum {
		score += longContextBonus
	}
	if needVision && cfg.Supports(provider.CapabilityVision) {
		score += visionBonus
	}
	if needCode && cfg.Supports(provider.CapabilityCode) {
		score += codeBonus
	}
	return score
}

// #endregion
