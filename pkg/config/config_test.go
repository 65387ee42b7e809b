package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Run("Should carry the documented defaults", func(t *testing.T) {
		cfg := Default()

		assert.Equal(t, "ollama", cfg.LLM.Provider)
		assert.Equal(t, "qwen2.5:7b-instruct", cfg.LLM.Model)
		assert.Equal(t, 3, cfg.LLM.RetryAttempts)
		assert.Equal(t, 500*time.Millisecond, cfg.LLM.RetryBackoffBase)
		assert.Equal(t, 5, cfg.Knowledge.TopK)
		assert.Equal(t, 800, cfg.Knowledge.ChunkSize)
		assert.Equal(t, 120, cfg.Knowledge.ChunkOverlap)
		assert.Equal(t, ".storage/tickets", cfg.Tickets.Dir)
		assert.Equal(t, "user@company.com", cfg.Tickets.ContactEmail)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults with no environment overrides", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Should override fields from prefixed environment variables", func(t *testing.T) {
		t.Setenv("ONBOARDKIT_LLM_MODEL", "llama3.2:3b")
		t.Setenv("ONBOARDKIT_KNOWLEDGE_TOP_K", "3")
		t.Setenv("ONBOARDKIT_TICKETS_DIR", "/tmp/tickets")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "llama3.2:3b", cfg.LLM.Model)
		assert.Equal(t, 3, cfg.Knowledge.TopK)
		assert.Equal(t, "/tmp/tickets", cfg.Tickets.Dir)
		// Untouched fields keep their defaults.
		assert.Equal(t, "ollama", cfg.LLM.Provider)
	})

	t.Run("Should ignore variables without the prefix", func(t *testing.T) {
		t.Setenv("LLM_MODEL", "other")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "qwen2.5:7b-instruct", cfg.LLM.Model)
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map the first segment to a section", func(t *testing.T) {
		assert.Equal(t, "knowledge.top_k", transformEnvKey("KNOWLEDGE_TOP_K"))
		assert.Equal(t, "llm.retry_backoff_base", transformEnvKey("LLM_RETRY_BACKOFF_BASE"))
		assert.Equal(t, "tickets.contact_email", transformEnvKey("TICKETS_CONTACT_EMAIL"))
	})

	t.Run("Should pass single-segment keys through", func(t *testing.T) {
		assert.Equal(t, "llm", transformEnvKey("LLM"))
	})

	t.Run("Should return empty for an empty key", func(t *testing.T) {
		assert.Equal(t, "", transformEnvKey(""))
	})
}
