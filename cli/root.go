package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/pkg/logger"
)

// RootCmd builds the onboardkit command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "onboardkit",
		Short:         "Onboarding assistant routing pipeline",
		Long:          "Routes employee questions through intent classification, retrieval-augmented answering and ticket escalation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Missing .env is fine; environment variables still apply.
			_ = godotenv.Load()
			logLevel, logJSON, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				logLevel, logJSON = "info", false
			}
			logger.SetupLogger(logLevel, logJSON)
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	root.AddCommand(
		AskCmd(),
		IngestCmd(),
		EvalCmd(),
		LoadCmd(),
	)
	return root
}
