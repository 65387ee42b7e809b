package loadtest

import (
	"fmt"
)

// Thresholds for the rule-based bottleneck analysis. This is reporting, not
// control logic.
const (
	latencyGrowthThreshold = 1.5
	highMeanLatencySeconds = 5.0
	lowThroughputPerSecond = 2.0
	recommendMeanLatency   = 3.0
	recommendRAGPercent    = 30.0
	recommendThroughputQPS = 3.0
)

// Recommendation is one canned optimization suggestion.
type Recommendation struct {
	Priority            string   `json:"priority"`
	Category            string   `json:"category"`
	Issue               string   `json:"issue"`
	Recommendation      string   `json:"recommendation"`
	ExpectedImprovement string   `json:"expected_improvement"`
	Implementation      []string `json:"implementation"`
}

// Analysis compares metrics across batch sizes to flag super-linear latency
// growth and low absolute throughput.
type Analysis struct {
	LatencyGrowthFactor float64          `json:"latency_growth_factor"`
	Findings            []string         `json:"findings"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// Analyze runs the rule set over an ordered series of batch results
// (smallest batch first).
func Analyze(batches []*BatchResult) *Analysis {
	a := &Analysis{}
	if len(batches) == 0 {
		return a
	}
	a.analyzeGrowth(batches)
	a.analyzeAbsolutes(batches)
	a.recommend(batches)
	return a
}

func (a *Analysis) analyzeGrowth(batches []*BatchResult) {
	if len(batches) < 2 {
		return
	}
	first := batches[0].Metrics.Latency.Mean
	last := batches[len(batches)-1].Metrics.Latency.Mean
	if first <= 0 {
		return
	}
	a.LatencyGrowthFactor = last / first
	if a.LatencyGrowthFactor > latencyGrowthThreshold {
		a.Findings = append(a.Findings, fmt.Sprintf(
			"HIGH LATENCY GROWTH: %.2fx increase (mean latency grew from %.3fs to %.3fs); main bottleneck: LLM inference",
			a.LatencyGrowthFactor, first, last))
	} else {
		a.Findings = append(a.Findings, fmt.Sprintf(
			"Latency scales reasonably: %.2fx growth", a.LatencyGrowthFactor))
	}
}

func (a *Analysis) analyzeAbsolutes(batches []*BatchResult) {
	var maxMean, maxThroughput float64
	for _, b := range batches {
		if b.Metrics.Latency.Mean > maxMean {
			maxMean = b.Metrics.Latency.Mean
		}
		if b.Metrics.Throughput.QueriesPerSecond > maxThroughput {
			maxThroughput = b.Metrics.Throughput.QueriesPerSecond
		}
	}
	if maxMean > highMeanLatencySeconds {
		a.Findings = append(a.Findings, fmt.Sprintf(
			"HIGH ABSOLUTE LATENCY: %.3fs mean; bottleneck: model inference time", maxMean))
	}
	if maxThroughput < lowThroughputPerSecond {
		a.Findings = append(a.Findings, fmt.Sprintf(
			"LOW THROUGHPUT: %.2f queries/sec; bottleneck: sequential LLM processing", maxThroughput))
	}
}

func (a *Analysis) recommend(batches []*BatchResult) {
	largest := batches[0]
	for _, b := range batches[1:] {
		if b.NumQueries > largest.NumQueries {
			largest = b
		}
	}
	metrics := largest.Metrics

	if metrics.Latency.Mean > recommendMeanLatency {
		a.Recommendations = append(a.Recommendations, Recommendation{
			Priority:            "HIGH",
			Category:            "Model Optimization",
			Issue:               fmt.Sprintf("High mean latency: %.2fs per query", metrics.Latency.Mean),
			Recommendation:      "Switch to a faster model (e.g., qwen2.5:3b or llama3.2:3b)",
			ExpectedImprovement: "40-60% latency reduction",
			Implementation: []string{
				"Point the LLM model config at a smaller instruct model",
				"Test accuracy vs speed tradeoff",
				"Consider caching frequent queries",
			},
		})
	}

	if metrics.SuccessfulQueries > 0 {
		ragPercent := float64(metrics.RouteDistribution["needs_rag"]) / float64(metrics.SuccessfulQueries) * 100
		if ragPercent > recommendRAGPercent {
			a.Recommendations = append(a.Recommendations, Recommendation{
				Priority:            "MEDIUM",
				Category:            "Response Caching",
				Issue:               fmt.Sprintf("%.1f%% of queries use RAG (expensive)", ragPercent),
				Recommendation:      "Implement semantic caching for RAG responses",
				ExpectedImprovement: "30-50% faster for repeated similar queries",
				Implementation: []string{
					"Cache RAG results keyed by query embedding similarity",
					"Set a TTL of 1 hour for cache entries",
				},
			})
		}
	}

	if metrics.Throughput.QueriesPerSecond < recommendThroughputQPS {
		a.Recommendations = append(a.Recommendations, Recommendation{
			Priority:            "MEDIUM",
			Category:            "Parallel Processing",
			Issue:               fmt.Sprintf("Low throughput: %.2f queries/sec", metrics.Throughput.QueriesPerSecond),
			Recommendation:      "Run multiple model-server instances behind the completion client",
			ExpectedImprovement: "2-3x throughput increase",
			Implementation: []string{
				"Set OLLAMA_NUM_PARALLEL=4 on the model server",
				"Raise the load-harness worker count to match",
			},
		})
	}

	a.Recommendations = append(a.Recommendations, Recommendation{
		Priority:            "LOW",
		Category:            "RAG Optimization",
		Issue:               "Vector search can be optimized",
		Recommendation:      "Optimize vector store indexing and retrieval",
		ExpectedImprovement: "10-20% faster RAG queries",
		Implementation: []string{
			"Use an HNSW index for faster similarity search",
			"Reduce the retrieval top-K",
			"Pre-filter documents by metadata before vector search",
		},
	})
}
