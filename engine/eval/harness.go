package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

// Invoker runs one query through the orchestration graph. Satisfied by
// *agent.Graph.
type Invoker interface {
	Invoke(ctx context.Context, userQuery string) (*core.State, error)
}

// Harness replays a labeled question set through the graph and computes
// accuracy, F1 and latency aggregates. A judge client is optional; when set,
// answer quality is scored by an auxiliary completion call per case.
type Harness struct {
	graph Invoker
	judge llmadapter.LLMClient
}

// HarnessOption customizes the harness.
type HarnessOption func(*Harness)

// WithJudge enables LLM-judged answer-quality scoring.
func WithJudge(judge llmadapter.LLMClient) HarnessOption {
	return func(h *Harness) { h.judge = judge }
}

func NewHarness(graph Invoker, opts ...HarnessOption) *Harness {
	h := &Harness{graph: graph}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes every case and aggregates the results. A failure during one
// case's traversal is recorded on that case and never aborts the batch.
func (h *Harness) Run(ctx context.Context, cases []Case) *Summary {
	log := logger.FromContext(ctx)
	summary := &Summary{TotalTests: len(cases)}
	for i := range cases {
		c := &cases[i]
		log.Info("Running evaluation case", "id", c.ID, "question", c.Question)
		result := h.runCase(ctx, c)
		summary.Results = append(summary.Results, result)
		if result.Error != "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Test %d: %s", result.QuestionID, result.Error))
		}
	}
	h.aggregate(summary)
	return summary
}

func (h *Harness) runCase(ctx context.Context, c *Case) Result {
	result := Result{
		QuestionID:         c.ID,
		Question:           c.Question,
		ExpectedRoute:      c.Expected.Route,
		ExpectedEscalation: c.Expected.Escalation,
		ActualRoute:        "unknown",
	}
	start := time.Now()
	st, err := h.graph.Invoke(ctx, c.Question)
	result.LatencySeconds = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.ActualRoute = st.RouteTaken()
	result.ActualEscalation = st.NeedsEscalation
	result.Answer = st.Answer
	result.IntentClassified = string(st.Intent)
	result.RetrievedDocsCount = len(st.RetrievedDocs)
	result.TicketCreated = st.TicketInfo != nil

	result.RouteCorrect = routeCorrect(c.Expected.Route, result.ActualRoute, result.ActualEscalation)
	result.EscalationCorrect = result.ActualEscalation == c.Expected.Escalation

	if h.judge != nil && result.Answer != "" {
		result.RelevanceScore = judgeScore(ctx, h.judge, relevancePrompt(c.Question, result.Answer))
		result.CompletenessScore = judgeScore(ctx, h.judge, completenessPrompt(c.Question, result.Answer))
	}
	return result
}

// routeCorrect maps expected behavior to actual outcomes. Expected
// escalation means the session must escalate; expected response_generation
// means it must not. Any other expected value compares routes directly.
func routeCorrect(expectedRoute, actualRoute string, actualEscalation bool) bool {
	switch expectedRoute {
	case string(core.RouteEscalation):
		return actualEscalation
	case string(core.RouteResponseGeneration):
		return !actualEscalation
	default:
		return actualRoute == expectedRoute
	}
}

func (h *Harness) aggregate(summary *Summary) {
	for i := range summary.Results {
		if summary.Results[i].OverallCorrect() {
			summary.PassedTests++
		}
	}
	summary.FailedTests = summary.TotalTests - summary.PassedTests
	if summary.TotalTests > 0 {
		summary.OverallAccuracy = float64(summary.PassedTests) / float64(summary.TotalTests)
	}
	summary.F1Score = escalationF1(summary.Results)
	h.aggregateCategories(summary)
	h.aggregateLatency(summary)
	h.aggregateQuality(summary)
}

// escalationF1 computes F1 from the escalation confusion matrix. Precision,
// recall and F1 are each 0 when their denominator is 0.
func escalationF1(results []Result) float64 {
	var tp, fp, fn int
	for i := range results {
		r := &results[i]
		switch {
		case r.ExpectedEscalation && r.ActualEscalation:
			tp++
		case !r.ExpectedEscalation && r.ActualEscalation:
			fp++
		case r.ExpectedEscalation && !r.ActualEscalation:
			fn++
		}
	}
	var precision, recall float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func (h *Harness) aggregateCategories(summary *Summary) {
	summary.ResponseGenerationAccuracy = categoryAccuracy(summary.Results, string(core.RouteResponseGeneration))
	summary.EscalationDetectionAccuracy = categoryAccuracy(summary.Results, string(core.RouteEscalation))
}

// categoryAccuracy returns nil when the category has zero cases so it
// renders as N/A rather than 0%.
func categoryAccuracy(results []Result, expectedRoute string) *float64 {
	var total, correct int
	for i := range results {
		if results[i].ExpectedRoute != expectedRoute {
			continue
		}
		total++
		if results[i].OverallCorrect() {
			correct++
		}
	}
	if total == 0 {
		return nil
	}
	acc := float64(correct) / float64(total)
	return &acc
}

func (h *Harness) aggregateLatency(summary *Summary) {
	if len(summary.Results) == 0 {
		return
	}
	minLat := summary.Results[0].LatencySeconds
	maxLat := minLat
	var sum float64
	for i := range summary.Results {
		lat := summary.Results[i].LatencySeconds
		sum += lat
		if lat < minLat {
			minLat = lat
		}
		if lat > maxLat {
			maxLat = lat
		}
	}
	summary.MinLatency = minLat
	summary.MaxLatency = maxLat
	summary.AvgLatency = sum / float64(len(summary.Results))
}

func (h *Harness) aggregateQuality(summary *Summary) {
	if h.judge == nil {
		return
	}
	var relSum, compSum float64
	var relN, compN int
	for i := range summary.Results {
		if s := summary.Results[i].RelevanceScore; s > 0 {
			relSum += s
			relN++
		}
		if s := summary.Results[i].CompletenessScore; s > 0 {
			compSum += s
			compN++
		}
	}
	if relN > 0 {
		summary.AvgRelevance = relSum / float64(relN)
	}
	if compN > 0 {
		summary.AvgCompleteness = compSum / float64(compN)
	}
}

// SaveResults writes the full report document to path, creating parent
// directories as needed.
func SaveResults(summary *Summary, path string) error {
	doc := report{
		Summary:         summary,
		DetailedResults: summary.Results,
		Errors:          summary.Errors,
	}
	if doc.Errors == nil {
		doc.Errors = []string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
