package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/pkg/config"
)

// AskCmd runs a single question through the orchestration graph.
func AskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the onboarding assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			graph, err := buildGraph(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			st, err := graph.Invoke(cmd.Context(), question)
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			fmt.Printf("Intent: %s\n", st.Intent)
			fmt.Printf("Route: %s\n", st.RouteTaken())
			if st.RewrittenQuery != "" {
				fmt.Printf("Rewritten query: %s\n", st.RewrittenQuery)
			}
			if st.TicketInfo != nil {
				fmt.Printf("Ticket: %s (%s)\n", st.TicketInfo.TicketID, st.TicketInfo.Status)
			}
			fmt.Printf("\n%s\n", st.Answer)
			return nil
		},
	}
}
