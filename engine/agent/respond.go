package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
)

const ragDecisionSystemPrompt = `You are deciding if a query needs to search company documentation.
If the query is asking about company policies, procedures, equipment, or onboarding information, respond: NEEDS_RAG
If the query is too vague or just a greeting, respond: DIRECT

Respond with ONLY "NEEDS_RAG" or "DIRECT", nothing else.`

// ClarificationAnswer is the canned reply for ambiguous queries that were
// decided as DIRECT. This is the only place a non-RAG, non-escalation answer
// is produced.
const ClarificationAnswer = "I'm not sure I understand your question. Could you please provide more " +
	"details about what you need help with? I can assist with onboarding procedures, company policies, " +
	"IT support, and equipment information."

// PathDecider chooses the generation route for non-critical intents. Policy
// and IT questions always require grounding, with no completion call for
// that decision; ambiguous queries get one binary NEEDS_RAG/DIRECT
// classification call.
type PathDecider struct {
	llm llmadapter.LLMClient
}

func NewPathDecider(client llmadapter.LLMClient) *PathDecider {
	return &PathDecider{llm: client}
}

// Run guarantees GenerationRoute is set to needs_rag or direct_answer on
// return.
func (d *PathDecider) Run(ctx context.Context, st *core.State) error {
	switch st.Intent {
	case core.IntentPolicyQuestion, core.IntentITQuestion:
		st.GenerationRoute = core.RouteNeedsRAG
		return nil
	}

	resp, err := d.llm.GenerateContent(ctx, llmadapter.UserRequest(ragDecisionSystemPrompt, st.UserQuery))
	if err != nil {
		return fmt.Errorf("grounding decision failed: %w", err)
	}
	// Substring match tolerates extra prose around the answer token.
	if strings.Contains(strings.ToUpper(resp.Content), "NEEDS_RAG") {
		st.GenerationRoute = core.RouteNeedsRAG
		return nil
	}
	st.GenerationRoute = core.RouteDirectAnswer
	st.Answer = ClarificationAnswer
	return nil
}
