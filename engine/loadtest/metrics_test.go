package loadtest_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/onboardkit/onboardkit/engine/loadtest"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	t.Run("Should interpolate linearly between ranks", func(t *testing.T) {
		assert.InDelta(t, 3.0, loadtest.Percentile(sorted, 50), 1e-9)
		assert.InDelta(t, 4.8, loadtest.Percentile(sorted, 95), 1e-9)
		assert.InDelta(t, 4.96, loadtest.Percentile(sorted, 99), 1e-9)
	})

	t.Run("Should return the extremes at 0 and 100", func(t *testing.T) {
		assert.InDelta(t, 1.0, loadtest.Percentile(sorted, 0), 1e-9)
		assert.InDelta(t, 5.0, loadtest.Percentile(sorted, 100), 1e-9)
	})

	t.Run("Should handle single-element and empty inputs", func(t *testing.T) {
		assert.InDelta(t, 7.0, loadtest.Percentile([]float64{7}, 95), 1e-9)
		assert.Zero(t, loadtest.Percentile(nil, 50))
	})

	t.Run("Should interpolate between two elements", func(t *testing.T) {
		assert.InDelta(t, 1.5, loadtest.Percentile([]float64{1, 2}, 50), 1e-9)
	})
}

func TestComputeMetrics(t *testing.T) {
	t.Run("Should aggregate latency, throughput and route distribution", func(t *testing.T) {
		results := []loadtest.QueryResult{
			{QueryID: 0, Success: true, LatencySeconds: 1, Route: "needs_rag"},
			{QueryID: 1, Success: true, LatencySeconds: 2, Route: "needs_rag"},
			{QueryID: 2, Success: true, LatencySeconds: 3, Route: "direct_answer"},
			{QueryID: 3, Success: true, LatencySeconds: 4, Route: "escalation"},
			{QueryID: 4, Success: false, LatencySeconds: 9, Error: "model down"},
		}

		m := loadtest.ComputeMetrics(results, 2*time.Second)

		assert.Equal(t, 5, m.TotalQueries)
		assert.Equal(t, 4, m.SuccessfulQueries)
		assert.Equal(t, 1, m.FailedQueries)
		assert.InDelta(t, 80.0, m.SuccessRate, 1e-9)

		// Failed-query latency must not enter the stats.
		assert.InDelta(t, 1.0, m.Latency.Min, 1e-9)
		assert.InDelta(t, 4.0, m.Latency.Max, 1e-9)
		assert.InDelta(t, 2.5, m.Latency.Mean, 1e-9)
		assert.InDelta(t, 2.5, m.Latency.Median, 1e-9)
		assert.InDelta(t, math.Sqrt(1.25), m.Latency.Stdev, 1e-9)

		// Throughput is successes over wall-clock time, not summed latency.
		assert.InDelta(t, 2.0, m.Throughput.TotalDuration, 1e-9)
		assert.InDelta(t, 2.0, m.Throughput.QueriesPerSecond, 1e-9)

		assert.Equal(t, map[string]int{
			"needs_rag":     2,
			"direct_answer": 1,
			"escalation":    1,
		}, m.RouteDistribution)
		assert.Empty(t, m.Error)
	})

	t.Run("Should report an error marker when every query failed", func(t *testing.T) {
		results := []loadtest.QueryResult{
			{QueryID: 0, Success: false, Error: "boom"},
			{QueryID: 1, Success: false, Error: "boom"},
		}

		m := loadtest.ComputeMetrics(results, time.Second)

		assert.Equal(t, "no successful queries", m.Error)
		assert.Zero(t, m.SuccessRate)
		assert.Zero(t, m.Latency.Mean)
	})

	t.Run("Should report zero stdev for a single success", func(t *testing.T) {
		results := []loadtest.QueryResult{{QueryID: 0, Success: true, LatencySeconds: 1.5, Route: "needs_rag"}}

		m := loadtest.ComputeMetrics(results, time.Second)

		assert.Zero(t, m.Latency.Stdev)
		assert.InDelta(t, 1.5, m.Latency.P99, 1e-9)
	})

	t.Run("Should bucket successes without a route as unknown", func(t *testing.T) {
		results := []loadtest.QueryResult{{QueryID: 0, Success: true, LatencySeconds: 1}}

		m := loadtest.ComputeMetrics(results, time.Second)

		assert.Equal(t, 1, m.RouteDistribution["unknown"])
	})
}
