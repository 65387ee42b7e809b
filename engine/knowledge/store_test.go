package knowledge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/onboardkit/onboardkit/engine/knowledge"
)

// stubStore implements vectorstores.VectorStore in memory.
type stubStore struct {
	docs      []schema.Document
	addCalls  int
	searchK   int
	searchQ   string
	searchErr error
	addErr    error
}

func (s *stubStore) AddDocuments(_ context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.addCalls++
	s.docs = append(s.docs, docs...)
	ids := make([]string, len(docs))
	return ids, nil
}

func (s *stubStore) SimilaritySearch(_ context.Context, query string, numDocuments int, _ ...vectorstores.Option) ([]schema.Document, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	s.searchQ = query
	s.searchK = numDocuments
	if numDocuments > len(s.docs) {
		numDocuments = len(s.docs)
	}
	return s.docs[:numDocuments], nil
}

func TestVectorSearcher_Search(t *testing.T) {
	t.Run("Should map store matches preserving order", func(t *testing.T) {
		store := &stubStore{docs: []schema.Document{
			{PageContent: "VPN setup guide", Metadata: map[string]any{"source": "it.md"}, Score: 0.91},
			{PageContent: "Remote work policy", Metadata: map[string]any{"source": "hr.md"}, Score: 0.82},
		}}
		searcher := knowledge.NewVectorSearcher(store)

		docs, err := searcher.Search(context.Background(), "how do I set up VPN", 2)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "VPN setup guide", docs[0].Content)
		assert.Equal(t, "it.md", docs[0].Metadata["source"])
		assert.InDelta(t, 0.91, docs[0].Score, 1e-6)
		assert.Equal(t, "Remote work policy", docs[1].Content)
		assert.Equal(t, "how do I set up VPN", store.searchQ)
		assert.Equal(t, 2, store.searchK)
	})

	t.Run("Should return an empty slice when nothing matches", func(t *testing.T) {
		searcher := knowledge.NewVectorSearcher(&stubStore{})

		docs, err := searcher.Search(context.Background(), "anything", 5)

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("Should wrap store errors", func(t *testing.T) {
		searcher := knowledge.NewVectorSearcher(&stubStore{searchErr: errors.New("connection reset")})

		_, err := searcher.Search(context.Background(), "anything", 5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "similarity search failed")
	})
}
