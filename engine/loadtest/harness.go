package loadtest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onboardkit/onboardkit/engine/core"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

// Invoker runs one query through the orchestration graph. Satisfied by
// *agent.Graph, which must be safe for concurrent invocation.
type Invoker interface {
	Invoke(ctx context.Context, userQuery string) (*core.State, error)
}

// QueryResult records one concurrently dispatched query. Failures are
// captured per query and never abort the batch.
type QueryResult struct {
	QueryID        int     `json:"query_id"`
	Question       string  `json:"question"`
	LatencySeconds float64 `json:"latency"`
	Success        bool    `json:"success"`
	Answer         string  `json:"answer,omitempty"`
	Intent         string  `json:"intent,omitempty"`
	Route          string  `json:"route_decision,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// FailureSample is a trimmed failure record kept in saved results.
type FailureSample struct {
	QueryID  int    `json:"query_id"`
	Question string `json:"question"`
	Error    string `json:"error"`
}

// BatchResult bundles one batch's configuration, metrics and failures.
type BatchResult struct {
	NumQueries     int             `json:"num_queries"`
	MaxWorkers     int             `json:"max_workers"`
	Metrics        *Metrics        `json:"metrics"`
	SampleFailures []FailureSample `json:"sample_failures"`

	// Results holds every per-query record; excluded from saved output.
	Results []QueryResult `json:"-"`
}

const maxSampleFailures = 5

// Harness replays queries concurrently through one shared graph instance.
// Each traversal owns its own State; the graph itself carries configuration
// only.
type Harness struct {
	graph   Invoker
	workers int
}

func NewHarness(graph Invoker, workers int) *Harness {
	if workers <= 0 {
		workers = 1
	}
	return &Harness{graph: graph, workers: workers}
}

// Run dispatches numQueries queries cycling through the question pool
// (query i uses question i mod len(questions)) onto a bounded worker pool
// and aggregates metrics over the whole concurrent batch. Results are
// collected in completion order.
func (h *Harness) Run(ctx context.Context, questions []string, numQueries int) *BatchResult {
	log := logger.FromContext(ctx)
	log.Info("Starting load batch", "queries", numQueries, "workers", h.workers)

	var mu sync.Mutex
	results := make([]QueryResult, 0, numQueries)

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(h.workers)
	for i := 0; i < numQueries; i++ {
		queryID := i
		question := questions[i%len(questions)]
		g.Go(func() error {
			result := h.runQuery(ctx, queryID, question)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures are recorded per query.
	_ = g.Wait()
	totalDuration := time.Since(start)

	batch := &BatchResult{
		NumQueries: numQueries,
		MaxWorkers: h.workers,
		Metrics:    ComputeMetrics(results, totalDuration),
		Results:    results,
	}
	for i := range results {
		if results[i].Success || len(batch.SampleFailures) >= maxSampleFailures {
			continue
		}
		batch.SampleFailures = append(batch.SampleFailures, FailureSample{
			QueryID:  results[i].QueryID,
			Question: results[i].Question,
			Error:    results[i].Error,
		})
	}
	log.Info("Load batch finished",
		"queries", numQueries,
		"failed", batch.Metrics.FailedQueries,
		"duration", totalDuration)
	return batch
}

func (h *Harness) runQuery(ctx context.Context, queryID int, question string) QueryResult {
	start := time.Now()
	st, err := h.graph.Invoke(ctx, question)
	latency := time.Since(start).Seconds()
	if err != nil {
		return QueryResult{
			QueryID:        queryID,
			Question:       question,
			LatencySeconds: latency,
			Success:        false,
			Error:          err.Error(),
		}
	}
	return QueryResult{
		QueryID:        queryID,
		Question:       question,
		LatencySeconds: latency,
		Success:        true,
		Answer:         st.Answer,
		Intent:         string(st.Intent),
		Route:          st.RouteTaken(),
	}
}
