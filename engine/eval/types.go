package eval

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Case is one labeled test question, loaded from newline-delimited JSON.
type Case struct {
	ID       int         `json:"id"`
	Question string      `json:"question"`
	Expected Expectation `json:"expected"`
}

// Expectation is the labeled outcome for a case.
type Expectation struct {
	Route      string `json:"route"`
	Escalation bool   `json:"escalation"`
}

// Result captures one case's execution and derived correctness flags.
type Result struct {
	QuestionID         int     `json:"question_id"`
	Question           string  `json:"question"`
	ExpectedRoute      string  `json:"expected_route"`
	ExpectedEscalation bool    `json:"expected_escalation"`
	ActualRoute        string  `json:"actual_route"`
	ActualEscalation   bool    `json:"actual_escalation"`
	Answer             string  `json:"answer"`
	RouteCorrect       bool    `json:"route_correct"`
	EscalationCorrect  bool    `json:"escalation_correct"`
	LatencySeconds     float64 `json:"latency_seconds"`

	RelevanceScore    float64 `json:"answer_relevance_score"`
	CompletenessScore float64 `json:"answer_completeness_score"`

	IntentClassified   string `json:"intent_classified"`
	RetrievedDocsCount int    `json:"retrieved_docs_count"`
	TicketCreated      bool   `json:"ticket_created"`
	Error              string `json:"error,omitempty"`
}

// OverallCorrect reports whether both routing and escalation matched.
func (r *Result) OverallCorrect() bool {
	return r.RouteCorrect && r.EscalationCorrect
}

// Summary aggregates metrics across all cases. Per-category accuracies are
// nil (rendered as JSON null) when the category has no cases, never 0%.
type Summary struct {
	TotalTests  int `json:"total_tests"`
	PassedTests int `json:"passed_tests"`
	FailedTests int `json:"failed_tests"`

	OverallAccuracy float64 `json:"overall_accuracy"`
	F1Score         float64 `json:"f1_score"`

	AvgLatency float64 `json:"avg_latency"`
	MinLatency float64 `json:"min_latency"`
	MaxLatency float64 `json:"max_latency"`

	AvgRelevance    float64 `json:"avg_relevance"`
	AvgCompleteness float64 `json:"avg_completeness"`

	ResponseGenerationAccuracy  *float64 `json:"response_generation_accuracy"`
	EscalationDetectionAccuracy *float64 `json:"escalation_detection_accuracy"`

	Results []Result `json:"-"`
	Errors  []string `json:"-"`
}

// report is the JSON document written by SaveResults.
type report struct {
	Summary         *Summary `json:"summary"`
	DetailedResults []Result `json:"detailed_results"`
	Errors          []string `json:"errors"`
}

// LoadCases reads labeled cases from a JSONL file, skipping blank lines.
func LoadCases(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open questions file: %w", err)
	}
	defer f.Close()

	var cases []Case
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var c Case
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("invalid question record at line %d: %w", line, err)
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}
	return cases, nil
}
