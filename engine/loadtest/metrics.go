package loadtest

import (
	"math"
	"sort"
	"time"
)

// LatencyStats summarizes successful-query latencies in seconds.
type LatencyStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Stdev  float64 `json:"stdev"`
}

// ThroughputStats relates successful queries to the wall-clock duration of
// the whole concurrent batch, not the sum of individual latencies.
type ThroughputStats struct {
	TotalDuration    float64 `json:"total_duration"`
	QueriesPerSecond float64 `json:"queries_per_second"`
}

// Metrics aggregates one batch.
type Metrics struct {
	TotalQueries      int             `json:"total_queries"`
	SuccessfulQueries int             `json:"successful_queries"`
	FailedQueries     int             `json:"failed_queries"`
	SuccessRate       float64         `json:"success_rate"`
	Latency           LatencyStats    `json:"latency"`
	Throughput        ThroughputStats `json:"throughput"`
	RouteDistribution map[string]int  `json:"route_distribution"`
	Error             string          `json:"error,omitempty"`
}

// ComputeMetrics aggregates per-query results into batch metrics.
func ComputeMetrics(results []QueryResult, totalDuration time.Duration) *Metrics {
	m := &Metrics{
		TotalQueries:      len(results),
		RouteDistribution: make(map[string]int),
	}
	var latencies []float64
	for i := range results {
		if !results[i].Success {
			m.FailedQueries++
			continue
		}
		m.SuccessfulQueries++
		latencies = append(latencies, results[i].LatencySeconds)
		route := results[i].Route
		if route == "" {
			route = "unknown"
		}
		m.RouteDistribution[route]++
	}
	if m.TotalQueries > 0 {
		m.SuccessRate = float64(m.SuccessfulQueries) / float64(m.TotalQueries) * 100
	}
	m.Throughput.TotalDuration = totalDuration.Seconds()
	if totalDuration > 0 {
		m.Throughput.QueriesPerSecond = float64(m.SuccessfulQueries) / totalDuration.Seconds()
	}
	if len(latencies) == 0 {
		m.Error = "no successful queries"
		return m
	}

	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)
	m.Latency = LatencyStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean(sorted),
		Median: Percentile(sorted, 50),
		P50:    Percentile(sorted, 50),
		P95:    Percentile(sorted, 95),
		P99:    Percentile(sorted, 99),
		Stdev:  populationStdev(sorted),
	}
	return m
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percentile computes the p-th percentile of sorted values by nearest-rank
// linear interpolation: k = (n-1)*p/100, interpolating between floor(k) and
// ceil(k).
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	k := float64(len(sorted)-1) * p / 100
	f := int(math.Floor(k))
	c := f + 1
	if c >= len(sorted) {
		return sorted[f]
	}
	return sorted[f] + (k-float64(f))*(sorted[c]-sorted[f])
}

// populationStdev is the population standard deviation over successful
// latencies, 0 when fewer than 2 samples exist.
func populationStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
