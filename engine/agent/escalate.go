package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/engine/ticket"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

const escalateSystemPrompt = `You are a support assistant handling a critical issue that requires escalation.
You have access to a create_ticket tool. Use it to create a support ticket based on the user's query.

For the ticket parameters:
- issue_description: Extract or summarize the key issue from the user's query
- priority: Always set to "High" for critical issues
- department: Choose from IT, HR, Security, or Facilities based on the issue type
- contact_email: Use "user@company.com" as the default contact

Call the create_ticket tool with appropriate parameters.`

// ManualEscalationAnswer is used when the model declines to call the ticket
// tool and the issue is left for manual escalation.
const ManualEscalationAnswer = "I've escalated your critical issue to support. Someone will contact you shortly."

const createTicketToolName = "create_ticket"

func createTicketTool() llmadapter.ToolDefinition {
	return llmadapter.ToolDefinition{
		Name:        createTicketToolName,
		Description: "Create a support ticket in the ticketing system.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"issue_description": map[string]any{
					"type":        "string",
					"description": "Description of the issue.",
				},
				"priority": map[string]any{
					"type":        "string",
					"description": "Priority level of the ticket (e.g., Low, Medium, High).",
				},
				"department": map[string]any{
					"type":        "string",
					"description": "Department to which the ticket should be assigned.",
					"enum":        []string{"IT", "HR", "Security", "Facilities"},
				},
				"contact_email": map[string]any{
					"type":        "string",
					"description": "Contact email for follow-up.",
				},
			},
			"required": []string{"issue_description", "priority", "department", "contact_email"},
		},
	}
}

// Escalator handles critical issues: it binds the create_ticket tool to a
// completion call, executes the tool invocation the model requests, and
// formats a user-facing confirmation. TicketInfo is always populated after
// Run, whether the ticket succeeded, failed or is pending manual handling.
type Escalator struct {
	llm          llmadapter.LLMClient
	tickets      ticket.Creator
	contactEmail string
}

func NewEscalator(client llmadapter.LLMClient, tickets ticket.Creator, contactEmail string) *Escalator {
	if contactEmail == "" {
		contactEmail = "user@company.com"
	}
	return &Escalator{llm: client, tickets: tickets, contactEmail: contactEmail}
}

func (e *Escalator) Run(ctx context.Context, st *core.State) error {
	log := logger.FromContext(ctx)
	req := llmadapter.UserRequest(escalateSystemPrompt, st.UserQuery)
	req.Tools = []llmadapter.ToolDefinition{createTicketTool()}

	resp, err := e.llm.GenerateContent(ctx, req)
	if err != nil {
		return fmt.Errorf("escalation call failed: %w", err)
	}

	if len(resp.ToolCalls) == 0 {
		// The model answered in plain text instead of invoking the tool.
		log.Warn("Model declined to call ticket tool, leaving manual escalation record")
		st.Answer = ManualEscalationAnswer
		st.TicketInfo = &core.TicketInfo{
			Status:  ticket.StatusPending,
			Message: "Manual escalation required",
		}
		return nil
	}

	call := resp.ToolCalls[0]
	var ticketReq ticket.Request
	if err := json.Unmarshal(call.Arguments, &ticketReq); err != nil {
		log.Warn("Failed to parse ticket tool arguments, using defaults", "error", err)
	}
	ticketReq.ApplyDefaults(st.UserQuery, e.contactEmail)

	result := e.tickets.Create(ctx, ticketReq)
	st.TicketInfo = &core.TicketInfo{
		Status:   result.Status,
		TicketID: result.TicketID,
		Message:  result.Message,
	}
	if result.Status == ticket.StatusSuccess {
		st.Answer = result.Message
		return nil
	}
	st.Answer = fmt.Sprintf("I've escalated your critical issue. %s", fallbackMessage(result.Message))
	return nil
}

func fallbackMessage(msg string) string {
	if msg == "" {
		return "Please contact support directly."
	}
	return msg
}
