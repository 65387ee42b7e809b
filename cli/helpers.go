package cli

import (
	"context"
	"fmt"

	"github.com/onboardkit/onboardkit/engine/agent"
	"github.com/onboardkit/onboardkit/engine/knowledge"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/engine/rag"
	"github.com/onboardkit/onboardkit/engine/ticket"
	"github.com/onboardkit/onboardkit/pkg/config"
)

// buildLLMClient constructs the single completion client shared by every
// pipeline stage, with retry applied at the client layer.
func buildLLMClient(cfg *config.Config) (llmadapter.LLMClient, error) {
	base, err := llmadapter.NewOllamaClient(cfg.LLM.Model, cfg.LLM.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build completion client: %w", err)
	}
	return llmadapter.NewRetryClient(base, llmadapter.RetryConfig{
		Attempts:    cfg.LLM.RetryAttempts,
		BackoffBase: cfg.LLM.RetryBackoffBase,
		Jitter:      cfg.LLM.RetryJitter,
	}), nil
}

// buildGraph wires the full orchestration graph from configuration.
func buildGraph(ctx context.Context, cfg *config.Config) (*agent.Graph, error) {
	client, err := buildLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	store, err := knowledge.OpenPGVectorStore(ctx, knowledge.StoreConfig{
		DSN:        cfg.Knowledge.DSN,
		Collection: cfg.Knowledge.Collection,
		EmbedModel: cfg.Knowledge.EmbedModel,
		BaseURL:    cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	retriever := rag.NewRetriever(knowledge.NewVectorSearcher(store), rag.WithTopK(cfg.Knowledge.TopK))
	pipeline := rag.NewPipeline(client, retriever)
	tickets := ticket.NewFileStore(cfg.Tickets.Dir)
	return agent.NewGraph(client, pipeline, tickets, cfg.Tickets.ContactEmail), nil
}
