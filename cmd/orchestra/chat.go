package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
)

func chatCmd() *cobra.Command {
	var conversationID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive session on one conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if conversationID == "" {
				conversationID = uuid.New().String()
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			fmt.Println("orchestra ready.")
			fmt.Printf("  Providers: %d | Storage: %s | Conversation: %s\n",
				a.registry.Len(), cfg.Storage.Driver, conversationID)
			fmt.Println("Type a query (or 'quit' to exit):")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				query := strings.TrimSpace(scanner.Text())
				if query == "" {
					continue
				}
				if query == "quit" || query == "exit" {
					break
				}

				res, err := a.manager.ProcessQuery(ctx, query, orchestrator.QueryOptions{
					ConversationID: conversationID,
				})
				if err != nil {
					logger.Error().Err(err).Msg("query failed")
					continue
				}
				printResult(res)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "", "resume a conversation (sqlite storage)")
	return cmd
}
