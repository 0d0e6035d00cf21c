package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/orchestra/internal/config"
	"github.com/danielpatrickdp/orchestra/internal/logging"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orchestra",
		Short: "Route queries across several LLM providers",
		Long: `orchestra picks the best-suited provider for each query, scores the
answer, asks for a rewrite when it falls short and falls back to another
provider when one fails.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err = logging.New(cfg.LoggerConfig())
			if err != nil {
				return err
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (yaml, json or toml)")

	rootCmd.AddCommand(
		serveCmd(),
		askCmd(),
		chatCmd(),
		inspectCmd(),
		providersCmd(),
		replayCmd(),
		fixtureExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
