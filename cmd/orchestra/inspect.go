package main

// #region imports
import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/orchestra/internal/logging"
)

// #endregion

func inspectCmd() *cobra.Command {
	var (
		dbPath  string
		last    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the provider attempt log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Storage.Path
			}
			db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()
			if err := logging.EnsureSchema(db); err != nil {
				return err
			}

			summaries, err := logging.ProviderSummaries(db)
			if err != nil {
				return err
			}
			recent, err := logging.RecentAttempts(db, last)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(map[string]any{"providers": summaries, "recent": recent})
			}
			printSummaries(summaries)
			printRecent(recent)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database (defaults to storage.path)")
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent attempts")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #region output

func printSummaries(rows []logging.ProviderSummary) {
	if len(rows) == 0 {
		fmt.Println("no attempts logged")
		return
	}
	fmt.Printf("%-10s  %8s  %8s  %8s  %8s  %10s  %s\n",
		"Provider", "Attempts", "Success", "Failed", "Quality", "Avg ms", "Last seen")
	for _, r := range rows {
		fmt.Printf("%-10s  %8d  %8d  %8d  %8.1f  %10.0f  %s\n",
			r.Provider, r.Attempts, r.Successes, r.Failures, r.AvgQuality, r.AvgDurationMs,
			r.LastSeen.Format("2006-01-02T15:04:05Z"))
	}
}

func printRecent(rows []logging.AttemptEntry) {
	if len(rows) == 0 {
		return
	}
	fmt.Printf("\nRecent attempts:\n")
	for _, r := range rows {
		line := fmt.Sprintf("  %s  %s  %-10s #%d %-8s %-8s q=%5.1f %6dms",
			r.CreatedAt.Format("2006-01-02T15:04:05Z"), shortID(r.QueryID), r.Provider, r.AttemptNum, r.Stage, r.Outcome, r.Quality, r.DurationMs)
		if r.Error != "" {
			line += "  " + r.Error
		}
		fmt.Println(line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion
