package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/engine/eval"
	"github.com/onboardkit/onboardkit/engine/loadtest"
	"github.com/onboardkit/onboardkit/pkg/config"
)

// LoadCmd replays queries concurrently through one shared graph instance
// for each requested batch size and reports latency and throughput.
func LoadCmd() *cobra.Command {
	var (
		queryCounts   string
		workers       int
		questionsPath string
		outputPath    string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load test the pipeline with concurrent queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			counts, err := parseQueryCounts(queryCounts)
			if err != nil {
				return err
			}
			cases, err := eval.LoadCases(questionsPath)
			if err != nil {
				return err
			}
			questions := make([]string, 0, len(cases))
			for i := range cases {
				questions = append(questions, cases[i].Question)
			}

			// One graph instance shared by every batch and worker.
			graph, err := buildGraph(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			harness := loadtest.NewHarness(graph, workers)

			var batches []*loadtest.BatchResult
			failed := 0
			for i, count := range counts {
				batch := harness.Run(cmd.Context(), questions, count)
				batches = append(batches, batch)
				failed += batch.Metrics.FailedQueries
				printBatchReport(batch)
				if i < len(counts)-1 {
					time.Sleep(5 * time.Second)
				}
			}

			analysis := loadtest.Analyze(batches)
			printAnalysis(analysis)

			if err := saveLoadResults(batches, outputPath); err != nil {
				return err
			}
			fmt.Printf("\nDetailed results saved to: %s\n", outputPath)

			if failed > 0 {
				return fmt.Errorf("load test completed with %d failed queries", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&queryCounts, "queries", "100", "Comma-separated list of query counts to test")
	cmd.Flags().IntVar(&workers, "workers", 10, "Number of concurrent workers")
	cmd.Flags().StringVar(&questionsPath, "questions-file", "eval/questions.jsonl", "Path to questions file (JSONL)")
	cmd.Flags().StringVar(&outputPath, "output", "loadtest/results/load_test_results.json", "Output file for results")
	return cmd
}

func parseQueryCounts(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	counts := make([]int, 0, len(parts))
	for _, part := range parts {
		count, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("invalid query count %q", part)
		}
		counts = append(counts, count)
	}
	return counts, nil
}

func printBatchReport(batch *loadtest.BatchResult) {
	m := batch.Metrics
	fmt.Printf("\nLOAD TEST RESULTS (%d queries, %d workers)\n", batch.NumQueries, batch.MaxWorkers)
	fmt.Printf("Success rate: %.2f%% (%d failed)\n", m.SuccessRate, m.FailedQueries)
	if m.Error != "" {
		fmt.Printf("Error: %s\n", m.Error)
		return
	}
	fmt.Printf("Latency: min %.3fs, max %.3fs, mean %.3fs, median %.3fs\n",
		m.Latency.Min, m.Latency.Max, m.Latency.Mean, m.Latency.Median)
	fmt.Printf("Percentiles: p95 %.3fs, p99 %.3fs, stdev %.3fs\n",
		m.Latency.P95, m.Latency.P99, m.Latency.Stdev)
	fmt.Printf("Throughput: %.2f queries/sec over %.2fs\n",
		m.Throughput.QueriesPerSecond, m.Throughput.TotalDuration)
	fmt.Println("Route distribution:")
	routes := make([]string, 0, len(m.RouteDistribution))
	for route := range m.RouteDistribution {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	for _, route := range routes {
		count := m.RouteDistribution[route]
		fmt.Printf("  %s: %d (%.1f%%)\n", route, count, float64(count)/float64(m.SuccessfulQueries)*100)
	}
}

func printAnalysis(analysis *loadtest.Analysis) {
	fmt.Println("\nBOTTLENECK ANALYSIS")
	for _, finding := range analysis.Findings {
		fmt.Printf("  - %s\n", finding)
	}
	fmt.Println("\nOPTIMIZATION RECOMMENDATIONS")
	for i, rec := range analysis.Recommendations {
		fmt.Printf("%d. [%s] %s\n", i+1, rec.Priority, rec.Category)
		fmt.Printf("   Issue: %s\n", rec.Issue)
		fmt.Printf("   Recommendation: %s\n", rec.Recommendation)
		fmt.Printf("   Expected improvement: %s\n", rec.ExpectedImprovement)
		for _, step := range rec.Implementation {
			fmt.Printf("     - %s\n", step)
		}
	}
}

func saveLoadResults(batches []*loadtest.BatchResult, path string) error {
	data, err := json.MarshalIndent(batches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal load results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write load results: %w", err)
	}
	return nil
}
