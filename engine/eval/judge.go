package eval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	llmadapter "github.com/onboardkit/onboardkit/engine/llm/adapter"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

func relevancePrompt(question, answer string) string {
	return fmt.Sprintf(`Rate how relevant this answer is to the question on a scale of 0-10.

Question: %s

Answer: %s

Provide only a number between 0 and 10, where:
- 0 = completely irrelevant or no answer
- 5 = partially relevant
- 10 = highly relevant and directly addresses the question

Score:`, question, answer)
}

func completenessPrompt(question, answer string) string {
	return fmt.Sprintf(`Rate how complete this answer is on a scale of 0-10.

Question: %s

Answer: %s

Provide only a number between 0 and 10, where:
- 0 = no useful information
- 5 = partially complete
- 10 = comprehensive and complete

Score:`, question, answer)
}

// judgeScore asks the judge to score 0-10 against the rubric prompt and
// normalizes to [0,1]. Call or parse failures yield 0.0 and are logged;
// judging never aborts a run.
func judgeScore(ctx context.Context, judge llmadapter.LLMClient, prompt string) float64 {
	log := logger.FromContext(ctx)
	resp, err := judge.GenerateContent(ctx, &llmadapter.LLMRequest{
		Messages: []llmadapter.Message{{Role: llmadapter.RoleUser, Content: prompt}},
	})
	if err != nil {
		log.Warn("Judge call failed", "error", err)
		return 0.0
	}
	score, err := parseScore(resp.Content)
	if err != nil {
		log.Warn("Judge score unparseable", "raw", resp.Content, "error", err)
		return 0.0
	}
	return score
}

// parseScore extracts the first whitespace-delimited token as a number and
// clamps the normalized value into [0,1].
func parseScore(raw string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty judge response")
	}
	score, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", fields[0], err)
	}
	normalized := score / 10.0
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return normalized, nil
}
