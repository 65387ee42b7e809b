package llmadapter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
)

// fakeModel records the converted call and returns a canned response.
type fakeModel struct {
	messages []llms.MessageContent
	opts     []llms.CallOption
	response *llms.ContentResponse
	err      error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	m.opts = options
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func TestLangChainAdapter_GenerateContent(t *testing.T) {
	t.Run("Should prepend the system prompt and map roles", func(t *testing.T) {
		model := &fakeModel{response: textResponse("hello")}
		adapter := llmadapter.NewLangChainAdapter(model)

		resp, err := adapter.GenerateContent(context.Background(), &llmadapter.LLMRequest{
			SystemPrompt: "You are helpful.",
			Messages: []llmadapter.Message{
				{Role: llmadapter.RoleUser, Content: "hi"},
				{Role: llmadapter.RoleAssistant, Content: "hello"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Content)
		require.Len(t, model.messages, 3)
		assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
		assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
		assert.Equal(t, llms.ChatMessageTypeAI, model.messages[2].Role)
	})

	t.Run("Should omit the system message when no system prompt is set", func(t *testing.T) {
		model := &fakeModel{response: textResponse("ok")}
		adapter := llmadapter.NewLangChainAdapter(model)

		_, err := adapter.GenerateContent(context.Background(), llmadapter.UserRequest("", "just a question"))

		require.NoError(t, err)
		require.Len(t, model.messages, 1)
		assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[0].Role)
	})

	t.Run("Should convert tool calls from the first choice", func(t *testing.T) {
		model := &fakeModel{response: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{
				ToolCalls: []llms.ToolCall{{
					ID: "call_1",
					FunctionCall: &llms.FunctionCall{
						Name:      "create_ticket",
						Arguments: `{"issue_description": "laptop on fire"}`,
					},
				}},
			}},
		}}
		adapter := llmadapter.NewLangChainAdapter(model)

		resp, err := adapter.GenerateContent(context.Background(), &llmadapter.LLMRequest{
			Messages: []llmadapter.Message{{Role: llmadapter.RoleUser, Content: "help"}},
			Tools: []llmadapter.ToolDefinition{{
				Name:        "create_ticket",
				Description: "Create a support ticket",
				Parameters:  map[string]any{"type": "object"},
			}},
		})

		require.NoError(t, err)
		require.Len(t, resp.ToolCalls, 1)
		assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
		assert.Equal(t, "create_ticket", resp.ToolCalls[0].Name)
		assert.JSONEq(t, `{"issue_description": "laptop on fire"}`, string(resp.ToolCalls[0].Arguments))
	})

	t.Run("Should reject a nil request", func(t *testing.T) {
		adapter := llmadapter.NewLangChainAdapter(&fakeModel{})

		_, err := adapter.GenerateContent(context.Background(), nil)

		require.Error(t, err)
	})

	t.Run("Should wrap model errors", func(t *testing.T) {
		adapter := llmadapter.NewLangChainAdapter(&fakeModel{err: errors.New("connection refused")})

		_, err := adapter.GenerateContent(context.Background(), llmadapter.UserRequest("", "q"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Should reject an empty response", func(t *testing.T) {
		adapter := llmadapter.NewLangChainAdapter(&fakeModel{response: &llms.ContentResponse{}})

		_, err := adapter.GenerateContent(context.Background(), llmadapter.UserRequest("", "q"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty response")
	})
}
