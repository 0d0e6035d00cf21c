package main

// #region imports
import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/orchestra/internal/conversation"
	"github.com/danielpatrickdp/orchestra/internal/replay"
)

// #endregion

// #region replay

func replayCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "replay <fixture.json>",
		Short: "Re-run routing and scoring over a recorded fixture",
		Long: `Replay routes and scores every recorded interaction offline, without
calling any provider, and compares the outcome with the fixture's expected
results. Exits non-zero when any expectation diverges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := replay.LoadFixture(args[0])
			if err != nil {
				return err
			}
			if len(f.Providers) == 0 {
				f.Providers = fixtureProviders()
			}
			if f.DefaultProvider == "" {
				f.DefaultProvider = cfg.Orchestrator.DefaultProvider
			}

			reg, err := f.Registry()
			if err != nil {
				return err
			}
			interactions, err := f.InteractionList()
			if err != nil {
				return err
			}

			results := replay.NewHarness(replay.NewSelector(reg, f.DefaultProvider), nil).Replay(interactions)
			mismatches := replay.Compare(results, f.ExpectedResults)

			if jsonOut {
				if err := printJSON(map[string]any{
					"results":    results,
					"summary":    replay.Summarize(results),
					"mismatches": mismatches,
				}); err != nil {
					return err
				}
			} else {
				printComparison(results, mismatches)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d expectation(s) diverge", len(mismatches))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func fixtureProviders() []replay.FixtureProvider {
	out := make([]replay.FixtureProvider, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		out = append(out, replay.FixtureProvider{ID: p.ID, Capabilities: p.Capabilities, MaxContext: p.MaxContext})
	}
	return out
}

func printComparison(results []replay.Result, mismatches []replay.Mismatch) {
	diverged := make(map[string]bool, len(mismatches))
	for _, m := range mismatches {
		diverged[m.TurnID] = true
	}

	fmt.Printf("%-12s| %-10s| %-10s| %-8s| %6s | %s\n", "Turn", "Recorded", "Selected", "Action", "Score", "Match")
	fmt.Printf("%-12s+%-11s+%-11s+%-9s+%8s+%s\n",
		"------------", "-----------", "-----------", "---------", "--------", "------")
	for _, r := range results {
		match := "OK"
		if diverged[r.TurnID] {
			match = "DIFF"
		}
		recorded := r.Agent
		if recorded == "" {
			recorded = "-"
		}
		fmt.Printf("%-12s| %-10s| %-10s| %-8s| %6.1f | %s\n",
			r.TurnID, recorded, r.Selected, r.Action, r.Evaluation.Score, match)
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d accept, %d improve, %d reject, avg %.1f, %d rerouted\n",
		s.TotalTurns, s.Accepted, s.Improved, s.Rejected, s.AvgScore, s.Rerouted)
	for _, m := range mismatches {
		fmt.Printf("  %s: %s want=%s got=%s\n", m.TurnID, m.Field, m.Want, m.Got)
	}
}

// #endregion

// #region fixture-export

func fixtureExportCmd() *cobra.Command {
	var (
		dbPath   string
		outPath  string
		baseline bool
	)
	cmd := &cobra.Command{
		Use:   "fixture-export <conversation-id>...",
		Short: "Export stored conversations as a replay fixture",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Storage.Path
			}
			store, err := conversation.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			f := &replay.Fixture{
				Description:     "exported from " + dbPath + ": " + strings.Join(args, ", "),
				DefaultProvider: cfg.Orchestrator.DefaultProvider,
				Providers:       fixtureProviders(),
			}
			for _, id := range args {
				turns, err := store.History(id)
				if err != nil {
					return fmt.Errorf("load %s: %w", id, err)
				}
				f.Interactions = append(f.Interactions, replay.FromTurns(id, turns)...)
			}
			if len(f.Interactions) == 0 {
				return fmt.Errorf("no answered turns found")
			}

			if baseline {
				reg, err := f.Registry()
				if err != nil {
					return err
				}
				interactions, err := f.InteractionList()
				if err != nil {
					return err
				}
				results := replay.NewHarness(replay.NewSelector(reg, f.DefaultProvider), nil).Replay(interactions)
				f.ExpectedResults = replay.ExpectCurrent(results)
			}

			if err := f.Save(outPath); err != nil {
				return err
			}
			fmt.Printf("Exported %d interaction(s) to %s\n", len(f.Interactions), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database (defaults to storage.path)")
	cmd.Flags().StringVar(&outPath, "out", "fixture.json", "output fixture JSON path")
	cmd.Flags().BoolVar(&baseline, "baseline", true, "record current routing and actions as expected results")
	return cmd
}

// #endregion
