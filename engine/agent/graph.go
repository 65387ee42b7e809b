package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/engine/rag"
	"github.com/onboardkit/onboardkit/engine/ticket"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

// Node names of the orchestration state machine.
const (
	nodeClassifyIntent     = "classify_intent"
	nodeRouter             = "router"
	nodeResponseGeneration = "response_generation"
	nodeRAGCall            = "rag_call"
	nodeEscalation         = "escalation"
	nodeFinalAnswer        = "final_answer"
)

type nodeFunc func(ctx context.Context, st *core.State) error

// Graph is the orchestration state machine executed once per query:
//
//	classify_intent -> router -> {response_generation | escalation}
//	response_generation -> {rag_call | final_answer}
//	rag_call -> final_answer
//	escalation -> final_answer
//	final_answer (terminal)
//
// The router transition is decided by PrimaryRoute, the response_generation
// transition by GenerationRoute. The graph has no cycles; exactly one path
// is taken per traversal. A Graph instance is stateless aside from its
// collaborators and safe for concurrent Invoke calls; each traversal owns
// its own State.
type Graph struct {
	nodes map[string]nodeFunc
	next  map[string]func(st *core.State) string
}

// NewGraph wires all stages around a single injected completion client,
// the RAG sub-pipeline and the ticket-creation capability.
func NewGraph(
	client llmadapter.LLMClient,
	ragPipeline *rag.Pipeline,
	tickets ticket.Creator,
	contactEmail string,
) *Graph {
	classifier := NewIntentClassifier(client)
	decider := NewPathDecider(client)
	escalator := NewEscalator(client, tickets, contactEmail)

	g := &Graph{}
	g.nodes = map[string]nodeFunc{
		nodeClassifyIntent:     classifier.Run,
		nodeRouter:             func(_ context.Context, st *core.State) error { Route(st); return nil },
		nodeResponseGeneration: decider.Run,
		nodeRAGCall:            ragPipeline.Run,
		nodeEscalation:         escalator.Run,
		nodeFinalAnswer:        func(_ context.Context, st *core.State) error { Finalize(st); return nil },
	}
	g.next = map[string]func(st *core.State) string{
		nodeClassifyIntent: func(*core.State) string { return nodeRouter },
		nodeRouter: func(st *core.State) string {
			if st.PrimaryRoute == core.RouteEscalation {
				return nodeEscalation
			}
			return nodeResponseGeneration
		},
		nodeResponseGeneration: func(st *core.State) string {
			if st.GenerationRoute == core.RouteNeedsRAG {
				return nodeRAGCall
			}
			return nodeFinalAnswer
		},
		nodeRAGCall:     func(*core.State) string { return nodeFinalAnswer },
		nodeEscalation:  func(*core.State) string { return nodeFinalAnswer },
		nodeFinalAnswer: func(*core.State) string { return "" },
	}
	return g
}

// Invoke runs one query through the graph and returns its final State.
// Stage errors propagate to the caller with the failing node named.
func (g *Graph) Invoke(ctx context.Context, userQuery string) (*core.State, error) {
	log := logger.FromContext(ctx)
	st := core.NewState(userQuery)
	node := nodeClassifyIntent
	for node != "" {
		start := time.Now()
		if err := g.nodes[node](ctx, st); err != nil {
			return nil, fmt.Errorf("node %s: %w", node, err)
		}
		log.Debug("Graph node completed", "node", node, "duration", time.Since(start))
		node = g.next[node](st)
	}
	return st, nil
}
