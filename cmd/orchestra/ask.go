package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
	"github.com/danielpatrickdp/orchestra/internal/provider"
)

func askCmd() *cobra.Command {
	var (
		agent        string
		caps         []string
		noFallback   bool
		noImprove    bool
		conversation string
		jsonOut      bool
	)
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer a single query and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := orchestrator.QueryOptions{
				ConversationID:   conversation,
				AgentPreference:  agent,
				AllowFallback:    orchestrator.Bool(!noFallback),
				AllowImprovement: orchestrator.Bool(!noImprove),
			}
			for _, name := range caps {
				c, ok := provider.ParseCapability(name)
				if !ok {
					return fmt.Errorf("unknown capability %q", name)
				}
				opts.RequireCapabilities = append(opts.RequireCapabilities, c)
			}

			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			res, err := a.manager.ProcessQuery(ctx, strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(res)
			}
			printResult(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "preferred provider id")
	cmd.Flags().StringSliceVar(&caps, "require", nil, "required capabilities (chat, code, analysis, vision, long-context)")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "do not retry on another provider")
	cmd.Flags().BoolVar(&noImprove, "no-improve", false, "skip the improvement pass")
	cmd.Flags().StringVar(&conversation, "conversation", "", "continue an existing conversation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func printResult(res *orchestrator.QueryResult) {
	fmt.Printf("\n%s\n\n", res.Content)
	fmt.Printf("[%s] quality=%.1f attempts=%d improved=%v %dms conversation=%s\n",
		res.Agent, res.Quality.Score, res.Attempts, res.Improved, res.ResponseTimeMs, res.ConversationID)
	for _, s := range res.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
