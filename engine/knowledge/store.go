package knowledge

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pgvector"

	"github.com/onboardkit/onboardkit/engine/core"
)

// Searcher is the document-retrieval capability boundary: nearest documents
// for a query string, in descending relevance order. Implementations must be
// safe for concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]core.RetrievedDoc, error)
}

// VectorSearcher implements Searcher over any langchaingo vector store.
type VectorSearcher struct {
	store vectorstores.VectorStore
}

// NewVectorSearcher wraps the given store.
func NewVectorSearcher(store vectorstores.VectorStore) *VectorSearcher {
	return &VectorSearcher{store: store}
}

// Search runs a similarity search and maps results into retrieval records,
// preserving the store-returned order.
func (s *VectorSearcher) Search(ctx context.Context, query string, k int) ([]core.RetrievedDoc, error) {
	matches, err := s.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	docs := make([]core.RetrievedDoc, 0, len(matches))
	for _, match := range matches {
		docs = append(docs, core.RetrievedDoc{
			Content:  match.PageContent,
			Metadata: match.Metadata,
			Score:    float64(match.Score),
		})
	}
	return docs, nil
}

// StoreConfig captures connection details for the pgvector-backed store.
type StoreConfig struct {
	DSN        string
	Collection string
	EmbedModel string
	BaseURL    string
}

// OpenPGVectorStore connects to a pgvector-backed document store using
// Ollama embeddings for both ingestion and query encoding.
func OpenPGVectorStore(ctx context.Context, cfg StoreConfig) (vectorstores.VectorStore, error) {
	embedLLM, err := ollama.New(
		ollama.WithModel(cfg.EmbedModel),
		ollama.WithServerURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding model: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedLLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	store, err := pgvector.New(ctx,
		pgvector.WithConnectionURL(cfg.DSN),
		pgvector.WithEmbedder(embedder),
		pgvector.WithCollectionName(cfg.Collection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open pgvector store: %w", err)
	}
	return store, nil
}
