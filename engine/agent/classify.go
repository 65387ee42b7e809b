package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/onboardkit/onboardkit/engine/core"
	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

const classifySystemPrompt = `You are an intent classifier for an employee onboarding assistant.
Classify the user's query into ONE of these categories:
- policy_question: Questions about HR policies, benefits, onboarding procedures, company guidelines
- it_question: IT support questions, technical troubleshooting, equipment, access issues
- critical_issue: Urgent problems like security incidents, data breaches, system outages requiring immediate escalation
- ambiguous: Unclear or vague queries that need more context

Respond with ONLY the category name, nothing else.`

// IntentClassifier maps a user query to one of the four fixed categories
// with a single completion call. Classification never aborts the pipeline:
// any output outside the category set is coerced to ambiguous.
type IntentClassifier struct {
	llm llmadapter.LLMClient
}

func NewIntentClassifier(client llmadapter.LLMClient) *IntentClassifier {
	return &IntentClassifier{llm: client}
}

func (c *IntentClassifier) Run(ctx context.Context, st *core.State) error {
	resp, err := c.llm.GenerateContent(ctx, llmadapter.UserRequest(classifySystemPrompt, st.UserQuery))
	if err != nil {
		return fmt.Errorf("intent classification failed: %w", err)
	}
	intent := core.Intent(strings.ToLower(strings.TrimSpace(resp.Content)))
	if !core.ValidIntent(intent) {
		logger.FromContext(ctx).Warn("Classifier returned invalid category, defaulting to ambiguous",
			"raw", resp.Content)
		intent = core.IntentAmbiguous
	}
	st.Intent = intent
	return nil
}
