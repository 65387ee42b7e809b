package llmadapter

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const defaultRetryAttempts = 3

// RetryConfig controls the retry policy applied around completion calls.
// Retry lives at the client layer: the orchestration graph above it never
// retries completion calls itself.
type RetryConfig struct {
	Attempts    int
	BackoffBase time.Duration
	Jitter      bool
}

// RetryClient wraps an LLMClient with bounded retry and jittered exponential
// backoff. It is stateless aside from configuration and safe for concurrent
// use when the wrapped client is.
type RetryClient struct {
	client LLMClient
	cfg    RetryConfig
}

// NewRetryClient builds a retrying wrapper around client.
func NewRetryClient(client LLMClient, cfg RetryConfig) *RetryClient {
	if cfg.Attempts <= 0 || cfg.Attempts > 100 {
		cfg.Attempts = defaultRetryAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	return &RetryClient{client: client, cfg: cfg}
}

// GenerateContent implements LLMClient. Any error from the wrapped client is
// treated as retryable until attempts are exhausted.
func (c *RetryClient) GenerateContent(ctx context.Context, req *LLMRequest) (*LLMResponse, error) {
	var backoff retry.Backoff = retry.NewExponential(c.cfg.BackoffBase)
	if c.cfg.Jitter {
		backoff = retry.WithJitter(50*time.Millisecond, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(c.cfg.Attempts-1), backoff)

	var response *LLMResponse
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		response, callErr = c.client.GenerateContent(ctx, req)
		if callErr != nil {
			return retry.RetryableError(callErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
