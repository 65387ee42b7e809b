package agent

import (
	"github.com/onboardkit/onboardkit/engine/core"
)

// FallbackAnswer is set when no upstream stage produced an answer.
const FallbackAnswer = "I apologize, but I couldn't process your request. Please try rephrasing " +
	"your question or contact support directly."

// Finalize guarantees every completed session carries a non-empty answer.
// It is a pass-through whenever an upstream stage already answered.
func Finalize(st *core.State) {
	if st.Answer == "" {
		st.Answer = FallbackAnswer
	}
}
