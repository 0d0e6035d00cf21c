package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// providersCmd lists configured providers without building them.
func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-10s  %-8s  %-24s  %8s  %-6s  %s\n", "ID", "Type", "Model", "Context", "Key", "Capabilities")
			for _, p := range cfg.ProviderConfigs() {
				key := "-"
				if p.APIKey != "" {
					key = "set"
				}
				caps := make([]string, 0, len(p.Capabilities))
				for _, c := range p.Capabilities {
					caps = append(caps, string(c))
				}
				fmt.Printf("%-10s  %-8s  %-24s  %8d  %-6s  %s\n",
					p.ID, p.Type, p.Model, p.MaxContext, key, strings.Join(caps, ","))
			}
			return nil
		},
	}
}
