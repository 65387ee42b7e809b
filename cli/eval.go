package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/engine/eval"
	"github.com/onboardkit/onboardkit/pkg/config"
)

// EvalCmd replays a labeled question set through the graph and reports
// routing/escalation accuracy.
func EvalCmd() *cobra.Command {
	var (
		questionsPath string
		outputPath    string
		useJudges     bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate routing and escalation accuracy over a labeled question set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			graph, err := buildGraph(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cases, err := eval.LoadCases(questionsPath)
			if err != nil {
				return err
			}

			var opts []eval.HarnessOption
			if useJudges {
				judge, judgeErr := buildLLMClient(cfg)
				if judgeErr != nil {
					return judgeErr
				}
				opts = append(opts, eval.WithJudge(judge))
			}
			harness := eval.NewHarness(graph, opts...)
			summary := harness.Run(cmd.Context(), cases)

			printEvalSummary(summary, useJudges)
			if err := eval.SaveResults(summary, outputPath); err != nil {
				return err
			}
			fmt.Printf("\nDetailed results saved to: %s\n", outputPath)

			if summary.FailedTests > 0 || len(summary.Errors) > 0 {
				return fmt.Errorf("evaluation completed with %d failures", summary.FailedTests)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&questionsPath, "questions", "eval/questions.jsonl", "Path to labeled questions (JSONL)")
	cmd.Flags().StringVar(&outputPath, "output", "eval/results/eval_results.json", "Output file for detailed results")
	cmd.Flags().BoolVar(&useJudges, "use-llm-judges", false, "Score answer quality with an LLM judge (slower)")
	return cmd
}

func printEvalSummary(summary *eval.Summary, judged bool) {
	fmt.Println("\nEVALUATION SUMMARY")
	fmt.Printf("Total tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d (%.1f%%)\n", summary.PassedTests, summary.OverallAccuracy*100)
	fmt.Printf("Failed: %d\n", summary.FailedTests)
	fmt.Printf("F1 score: %.1f%%\n", summary.F1Score*100)
	fmt.Printf("Response generation cases: %s\n", formatAccuracy(summary.ResponseGenerationAccuracy))
	fmt.Printf("Escalation detection cases: %s\n", formatAccuracy(summary.EscalationDetectionAccuracy))
	fmt.Printf("Latency: avg %.3fs, min %.3fs, max %.3fs\n",
		summary.AvgLatency, summary.MinLatency, summary.MaxLatency)
	if judged {
		fmt.Printf("Answer relevance: %.1f%%\n", summary.AvgRelevance*100)
		fmt.Printf("Answer completeness: %.1f%%\n", summary.AvgCompleteness*100)
	}
	if len(summary.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", len(summary.Errors))
		for _, e := range summary.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// formatAccuracy renders a per-category accuracy, or N/A when the category
// had no cases. Zero cases must never read as 0%.
func formatAccuracy(acc *float64) string {
	if acc == nil {
		return "N/A (no test cases)"
	}
	return fmt.Sprintf("%.1f%%", *acc*100)
}
