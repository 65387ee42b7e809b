package agent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onboardkit/onboardkit/engine/agent"
	"github.com/onboardkit/onboardkit/engine/core"
)

func TestPathDecider_Run(t *testing.T) {
	t.Run("Should require grounding for policy questions without a completion call", func(t *testing.T) {
		llm := &stubLLM{}
		decider := agent.NewPathDecider(llm)
		st := core.NewState("How many home office days per week am I allowed?")
		st.Intent = core.IntentPolicyQuestion

		err := decider.Run(context.Background(), st)

		require.NoError(t, err)
		assert.Equal(t, core.RouteNeedsRAG, st.GenerationRoute)
		assert.Empty(t, llm.requests, "deterministic decision must not call the model")
	})

	t.Run("Should require grounding for IT questions without a completion call", func(t *testing.T) {
		llm := &stubLLM{}
		decider := agent.NewPathDecider(llm)
		st := core.NewState("How do I request a new monitor?")
		st.Intent = core.IntentITQuestion

		err := decider.Run(context.Background(), st)

		require.NoError(t, err)
		assert.Equal(t, core.RouteNeedsRAG, st.GenerationRoute)
		assert.Empty(t, llm.requests)
	})

	t.Run("Should classify ambiguous queries with one call and match NEEDS_RAG loosely", func(t *testing.T) {
		llm := &stubLLM{content: "I believe the answer is needs_rag here."}
		decider := agent.NewPathDecider(llm)
		st := core.NewState("what about the equipment?")
		st.Intent = core.IntentAmbiguous

		err := decider.Run(context.Background(), st)

		require.NoError(t, err)
		assert.Equal(t, core.RouteNeedsRAG, st.GenerationRoute)
		assert.Empty(t, st.Answer)
		require.Len(t, llm.requests, 1)
	})

	t.Run("Should answer inline when the decision is DIRECT", func(t *testing.T) {
		llm := &stubLLM{content: "DIRECT"}
		decider := agent.NewPathDecider(llm)
		st := core.NewState("hi")
		st.Intent = core.IntentAmbiguous

		err := decider.Run(context.Background(), st)

		require.NoError(t, err)
		assert.Equal(t, core.RouteDirectAnswer, st.GenerationRoute)
		assert.Equal(t, agent.ClarificationAnswer, st.Answer)
	})
}
