package agent_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onboardkit/onboardkit/engine/agent"
	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/engine/ticket"
)

type stubCreator struct {
	result   ticket.Result
	requests []ticket.Request
}

func (s *stubCreator) Create(_ context.Context, req ticket.Request) ticket.Result {
	s.requests = append(s.requests, req)
	return s.result
}

func toolCall(t *testing.T, args map[string]any) llmadapter.ToolCall {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return llmadapter.ToolCall{ID: "call-1", Name: "create_ticket", Arguments: raw}
}

func TestEscalator_Run(t *testing.T) {
	t.Run("Should create a ticket from the model's tool call", func(t *testing.T) {
		llm := &stubLLM{toolCalls: []llmadapter.ToolCall{toolCall(t, map[string]any{
			"issue_description": "Phishing email requesting credentials",
			"priority":          "High",
			"department":        "Security",
			"contact_email":     "user@company.com",
		})}}
		creator := &stubCreator{result: ticket.Result{
			Status:   ticket.StatusSuccess,
			TicketID: "TICKET-DEADBEEF",
			Message:  "Support ticket TICKET-DEADBEEF created successfully for the Security department.",
		}}
		escalator := agent.NewEscalator(llm, creator, "user@company.com")
		st := core.NewState("I received an email asking for my password and VPN details. What should I do?")

		err := escalator.Run(context.Background(), st)

		require.NoError(t, err)
		require.Len(t, creator.requests, 1)
		assert.Equal(t, "Security", creator.requests[0].Department)
		require.NotNil(t, st.TicketInfo)
		assert.Equal(t, ticket.StatusSuccess, st.TicketInfo.Status)
		assert.Equal(t, creator.result.Message, st.Answer)
		require.Len(t, llm.requests, 1)
		require.Len(t, llm.requests[0].Tools, 1)
		assert.Equal(t, "create_ticket", llm.requests[0].Tools[0].Name)
	})

	t.Run("Should coerce invalid fields to defaults", func(t *testing.T) {
		llm := &stubLLM{toolCalls: []llmadapter.ToolCall{toolCall(t, map[string]any{
			"priority":   "Low",
			"department": "Engineering",
		})}}
		creator := &stubCreator{result: ticket.Result{Status: ticket.StatusSuccess, Message: "ok"}}
		escalator := agent.NewEscalator(llm, creator, "helpdesk@company.com")
		st := core.NewState("production database is on fire")

		err := escalator.Run(context.Background(), st)

		require.NoError(t, err)
		require.Len(t, creator.requests, 1)
		req := creator.requests[0]
		assert.Equal(t, "production database is on fire", req.Description)
		assert.Equal(t, ticket.DefaultPriority, req.Priority)
		assert.Equal(t, ticket.DefaultDepartment, req.Department)
		assert.Equal(t, "helpdesk@company.com", req.ContactEmail)
	})

	t.Run("Should acknowledge escalation when ticket creation fails", func(t *testing.T) {
		llm := &stubLLM{toolCalls: []llmadapter.ToolCall{toolCall(t, map[string]any{
			"issue_description": "outage",
			"department":        "IT",
		})}}
		creator := &stubCreator{result: ticket.Result{
			Status:  ticket.StatusError,
			Message: "Failed to create ticket: disk full",
		}}
		escalator := agent.NewEscalator(llm, creator, "")
		st := core.NewState("everything is down")

		err := escalator.Run(context.Background(), st)

		require.NoError(t, err)
		require.NotNil(t, st.TicketInfo)
		assert.Equal(t, ticket.StatusError, st.TicketInfo.Status)
		assert.Contains(t, st.Answer, "I've escalated your critical issue.")
		assert.Contains(t, st.Answer, "disk full")
	})

	t.Run("Should leave a pending record when the model declines the tool", func(t *testing.T) {
		llm := &stubLLM{content: "You should contact support."}
		creator := &stubCreator{}
		escalator := agent.NewEscalator(llm, creator, "")
		st := core.NewState("urgent problem")

		err := escalator.Run(context.Background(), st)

		require.NoError(t, err)
		assert.Empty(t, creator.requests)
		require.NotNil(t, st.TicketInfo)
		assert.Equal(t, ticket.StatusPending, st.TicketInfo.Status)
		assert.Equal(t, agent.ManualEscalationAnswer, st.Answer)
	})
}
