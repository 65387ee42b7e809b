package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

// NoContextAnswer is returned when retrieval produced no documents. The
// answering stage skips its completion call in that case.
const NoContextAnswer = "I'm sorry, I couldn't find relevant information to answer your question."

const answerSystemPrompt = "You are a helpful onboarding assistant. Answer the user's question based on " +
	"the provided context documents. If the context doesn't contain relevant information, say so politely."

const rewritePromptFormat = `Given the following user question about employee onboarding, IT policies, HR information, or workplace procedures,
rewrite it to be more effective for semantic search retrieval.
Make it more specific, add relevant keywords, and structure it as a clear information need.

Original question: %s

Rewritten query (respond with ONLY the rewritten query, no explanations):`

// Pipeline is the retrieval-augmented answering sub-pipeline: rewrite the
// query, retrieve supporting documents, answer grounded in them. It is
// independently invocable and also runs as one node of the agent graph.
type Pipeline struct {
	llm       llmadapter.LLMClient
	retriever *Retriever
}

func NewPipeline(client llmadapter.LLMClient, retriever *Retriever) *Pipeline {
	return &Pipeline{llm: client, retriever: retriever}
}

// Run executes the three stages in order. A completion failure in the
// rewrite or answer stage propagates; a terminal retrieval failure aborts
// the sub-pipeline.
func (p *Pipeline) Run(ctx context.Context, st *core.State) error {
	if err := p.rewrite(ctx, st); err != nil {
		return err
	}
	if err := p.retrieve(ctx, st); err != nil {
		return err
	}
	return p.answer(ctx, st)
}

func (p *Pipeline) rewrite(ctx context.Context, st *core.State) error {
	prompt := fmt.Sprintf(rewritePromptFormat, st.UserQuery)
	resp, err := p.llm.GenerateContent(ctx, &llmadapter.LLMRequest{
		Messages: []llmadapter.Message{{Role: llmadapter.RoleUser, Content: prompt}},
	})
	if err != nil {
		return fmt.Errorf("query rewrite failed: %w", err)
	}
	st.RewrittenQuery = strings.TrimSpace(resp.Content)
	logger.FromContext(ctx).Debug("Query rewritten for retrieval",
		"original", st.UserQuery, "rewritten", st.RewrittenQuery)
	return nil
}

func (p *Pipeline) retrieve(ctx context.Context, st *core.State) error {
	docs, err := p.retriever.Retrieve(ctx, st.RetrievalQuery())
	if err != nil {
		return err
	}
	st.RetrievedDocs = docs
	return nil
}

func (p *Pipeline) answer(ctx context.Context, st *core.State) error {
	if len(st.RetrievedDocs) == 0 {
		// Cost-saving short circuit: no documents, no completion call.
		st.Answer = NoContextAnswer
		return nil
	}
	contextBlock := buildContext(st.RetrievedDocs)
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, st.UserQuery)
	resp, err := p.llm.GenerateContent(ctx, llmadapter.UserRequest(answerSystemPrompt, userPrompt))
	if err != nil {
		return fmt.Errorf("grounded answer generation failed: %w", err)
	}
	st.Answer = resp.Content
	return nil
}

// buildContext concatenates per-document blocks labeled by source metadata.
func buildContext(docs []core.RetrievedDoc) string {
	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		source := "unknown"
		if s, ok := doc.Metadata["source"].(string); ok && s != "" {
			source = s
		}
		parts = append(parts, fmt.Sprintf("[Document %d - %s]\n%s", i+1, source, doc.Content))
	}
	return strings.Join(parts, "\n\n")
}
