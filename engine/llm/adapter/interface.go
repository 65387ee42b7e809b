package llmadapter

import (
	"context"
	"encoding/json"
)

// Role constants for conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMRequest represents a request to the completion capability, independent
// of provider. The caller supplies either a bare user message or a
// system/user pair, plus any tools the model may invoke.
type LLMRequest struct {
	SystemPrompt string
	Messages     []Message
	Tools        []ToolDefinition
	Options      CallOptions
}

// Message represents one conversation message.
type Message struct {
	Role    string
	Content string
}

// ToolDefinition represents a tool declared to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema
}

// CallOptions represents per-call tuning options.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLMResponse is the tagged result of a completion call: plain text in
// Content, or one or more tool-invocation requests in ToolCalls. Callers
// that declared tools must check ToolCalls before falling back to Content.
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// LLMClient is the completion-capability boundary. Implementations must be
// safe for concurrent use; they hold configuration only, no per-call state.
type LLMClient interface {
	GenerateContent(ctx context.Context, req *LLMRequest) (*LLMResponse, error)
}

// UserRequest is a convenience constructor for the common system/user pair.
func UserRequest(systemPrompt, userContent string) *LLMRequest {
	return &LLMRequest{
		SystemPrompt: systemPrompt,
		Messages:     []Message{{Role: RoleUser, Content: userContent}},
	}
}
