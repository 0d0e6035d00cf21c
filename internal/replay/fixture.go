package replay

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/orchestra/internal/conversation"
	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	DefaultProvider string                  `json:"default_provider,omitempty"`
	Providers       []FixtureProvider       `json:"providers,omitempty"`
	Interactions    []FixtureInteraction    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results,omitempty"`
}

// FixtureProvider is the routing-relevant part of a provider config.
type FixtureProvider struct {
	ID           string   `json:"id"`
	Capabilities []string `json:"capabilities"`
	MaxContext   int      `json:"max_context"`
}

// FixtureInteraction mirrors Interaction with JSON tags.
type FixtureInteraction struct {
	TurnID              string   `json:"turn_id"`
	Query               string   `json:"query"`
	Response            string   `json:"response"`
	Agent               string   `json:"agent,omitempty"`
	RequireCapabilities []string `json:"require_capabilities,omitempty"`
	AgentPreference     string   `json:"agent_preference,omitempty"`
}

// FixtureExpectedResult pins the outcome of one turn. Empty fields are not
// checked.
type FixtureExpectedResult struct {
	TurnID string `json:"turn_id"`
	Agent  string `json:"agent,omitempty"`
	Action string `json:"action,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the fixture as indented JSON.
func (f *Fixture) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ToInteraction converts a FixtureInteraction to a domain Interaction.
func (fi *FixtureInteraction) ToInteraction() (Interaction, error) {
	inter := Interaction{
		TurnID:          fi.TurnID,
		Query:           fi.Query,
		Response:        fi.Response,
		Agent:           fi.Agent,
		AgentPreference: fi.AgentPreference,
	}
	for _, name := range fi.RequireCapabilities {
		c, ok := provider.ParseCapability(name)
		if !ok {
			return Interaction{}, fmt.Errorf("turn %s: unknown capability %q", fi.TurnID, name)
		}
		inter.RequireCapabilities = append(inter.RequireCapabilities, c)
	}
	return inter, nil
}

// InteractionList converts every fixture interaction.
func (f *Fixture) InteractionList() ([]Interaction, error) {
	out := make([]Interaction, len(f.Interactions))
	for i := range f.Interactions {
		inter, err := f.Interactions[i].ToInteraction()
		if err != nil {
			return nil, err
		}
		out[i] = inter
	}
	return out, nil
}

// Registry builds a registry of non-callable providers from the fixture's
// provider list, for routing only.
func (f *Fixture) Registry() (*provider.Registry, error) {
	adapters := make([]provider.Adapter, 0, len(f.Providers))
	for _, p := range f.Providers {
		cfg := provider.Config{ID: p.ID, Name: p.ID, MaxContext: p.MaxContext}
		for _, name := range p.Capabilities {
			c, ok := provider.ParseCapability(name)
			if !ok {
				return nil, fmt.Errorf("provider %s: unknown capability %q", p.ID, name)
			}
			cfg.Capabilities = append(cfg.Capabilities, c)
		}
		adapters = append(adapters, routingOnly{cfg: cfg})
	}
	return provider.NewRegistry(adapters...)
}

// routingOnly carries a config for the selector and refuses to generate.
type routingOnly struct{ cfg provider.Config }

func (r routingOnly) ID() string              { return r.cfg.ID }
func (r routingOnly) Config() provider.Config { return r.cfg }
func (r routingOnly) Generate(context.Context, string, provider.GenerateContext) (*provider.Response, error) {
	return nil, &provider.Error{ProviderID: r.cfg.ID, Detail: "replay providers cannot generate"}
}

// #endregion fixture-loader

// #region compare

// Mismatch is one expected field that the replay did not reproduce.
type Mismatch struct {
	TurnID string `json:"turn_id"`
	Field  string `json:"field"` // "agent" | "action" | "missing"
	Want   string `json:"want,omitempty"`
	Got    string `json:"got,omitempty"`
}

// Compare matches results against expectations by turn id.
func Compare(results []Result, expected []FixtureExpectedResult) []Mismatch {
	byTurn := make(map[string]Result, len(results))
	for _, r := range results {
		byTurn[r.TurnID] = r
	}

	var out []Mismatch
	for _, e := range expected {
		r, ok := byTurn[e.TurnID]
		if !ok {
			out = append(out, Mismatch{TurnID: e.TurnID, Field: "missing"})
			continue
		}
		if e.Agent != "" && e.Agent != r.Selected {
			out = append(out, Mismatch{TurnID: e.TurnID, Field: "agent", Want: e.Agent, Got: r.Selected})
		}
		if e.Action != "" && e.Action != r.Action {
			out = append(out, Mismatch{TurnID: e.TurnID, Field: "action", Want: e.Action, Got: r.Action})
		}
	}
	return out
}

// #endregion

// #region export

// FromTurns pairs each user turn with the assistant turn that follows it.
// Unanswered user turns are skipped.
func FromTurns(conversationID string, turns []conversation.Turn) []FixtureInteraction {
	var out []FixtureInteraction
	for i := 0; i+1 < len(turns); i++ {
		if turns[i].Role != conversation.RoleUser || turns[i+1].Role != conversation.RoleAssistant {
			continue
		}
		out = append(out, FixtureInteraction{
			TurnID:   fmt.Sprintf("%s-%d", shortID(conversationID), len(out)+1),
			Query:    turns[i].Content,
			Response: turns[i+1].Content,
			Agent:    turns[i+1].Agent,
		})
		i++
	}
	return out
}

// ExpectCurrent records results as the expectations of a new baseline.
func ExpectCurrent(results []Result) []FixtureExpectedResult {
	out := make([]FixtureExpectedResult, len(results))
	for i, r := range results {
		out[i] = FixtureExpectedResult{TurnID: r.TurnID, Agent: r.Selected, Action: r.Action}
	}
	return out
}

// NewSelector builds the selector a replay routes with.
func NewSelector(reg *provider.Registry, defaultID string) *orchestrator.AgentSelector {
	return orchestrator.NewAgentSelector(reg, nil, defaultID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion
