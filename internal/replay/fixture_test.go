package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/orchestra/internal/conversation"
)

// #region fixture-tests

// TestFixture_RoutingSession replays the routing baseline with the production
// scorer and compares each turn's selected provider and action.
func TestFixture_RoutingSession(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "routing_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	reg, err := f.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	interactions, err := f.InteractionList()
	if err != nil {
		t.Fatalf("InteractionList: %v", err)
	}

	results := NewHarness(NewSelector(reg, f.DefaultProvider), nil).Replay(interactions)
	if len(results) != len(f.ExpectedResults) {
		t.Fatalf("expected %d results, got %d", len(f.ExpectedResults), len(results))
	}

	for _, m := range Compare(results, f.ExpectedResults) {
		t.Errorf("turn %s: %s want=%q got=%q", m.TurnID, m.Field, m.Want, m.Got)
	}

	s := Summarize(results)
	if s.Rejected != 1 {
		t.Errorf("expected 1 rejected turn, got %d", s.Rejected)
	}
	// t2 was answered by general but routes to seer now.
	if s.Rerouted != 1 {
		t.Errorf("expected 1 rerouted turn, got %d", s.Rerouted)
	}
}

func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadFixture_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestFixture_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f := &Fixture{
		Description:  "round trip",
		Interactions: []FixtureInteraction{{TurnID: "a", Query: "q", Response: "r"}},
	}
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if got.Description != "round trip" || len(got.Interactions) != 1 || got.Interactions[0].Query != "q" {
		t.Errorf("unexpected fixture after round trip: %+v", got)
	}
}

func TestFixture_UnknownCapability(t *testing.T) {
	f := &Fixture{Providers: []FixtureProvider{{ID: "x", Capabilities: []string{"telepathy"}}}}
	if _, err := f.Registry(); err == nil {
		t.Error("expected error for unknown provider capability")
	}

	f = &Fixture{Interactions: []FixtureInteraction{{TurnID: "a", RequireCapabilities: []string{"telepathy"}}}}
	if _, err := f.InteractionList(); err == nil {
		t.Error("expected error for unknown interaction capability")
	}
}

// #endregion fixture-tests

// #region export-tests

func TestFromTurns_PairsUserAndAssistant(t *testing.T) {
	now := time.Now()
	turns := []conversation.Turn{
		{Role: conversation.RoleUser, Content: "q1", Timestamp: now},
		{Role: conversation.RoleAssistant, Content: "a1", Agent: "openai", Timestamp: now},
		{Role: conversation.RoleUser, Content: "dangling", Timestamp: now},
		{Role: conversation.RoleUser, Content: "q2", Timestamp: now},
		{Role: conversation.RoleAssistant, Content: "a2", Agent: "claude", Timestamp: now},
	}

	got := FromTurns("0123456789abcdef", turns)
	if len(got) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(got))
	}
	if got[0].TurnID != "01234567-1" || got[1].TurnID != "01234567-2" {
		t.Errorf("unexpected turn ids: %s, %s", got[0].TurnID, got[1].TurnID)
	}
	if got[1].Query != "q2" || got[1].Response != "a2" || got[1].Agent != "claude" {
		t.Errorf("unexpected second interaction: %+v", got[1])
	}
}

func TestCompare_ReportsMissingAndDiffs(t *testing.T) {
	results := []Result{{TurnID: "a", Selected: "x", Action: ActionAccept}}
	expected := []FixtureExpectedResult{
		{TurnID: "a", Agent: "y", Action: ActionImprove},
		{TurnID: "b"},
	}

	got := Compare(results, expected)
	if len(got) != 3 {
		t.Fatalf("expected 3 mismatches, got %d: %+v", len(got), got)
	}
	if got[0].Field != "agent" || got[1].Field != "action" || got[2].Field != "missing" {
		t.Errorf("unexpected mismatch order: %+v", got)
	}

	if len(Compare(results, ExpectCurrent(results))) != 0 {
		t.Error("a baseline built from results must match them")
	}
}

// #endregion export-tests
