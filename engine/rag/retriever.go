package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/onboardkit/onboardkit/engine/core"
	"github.com/onboardkit/onboardkit/engine/knowledge"
	"github.com/onboardkit/onboardkit/pkg/logger"
)

// ErrRetrievalExhausted is the terminal retrieval error returned once every
// retry attempt has failed. It aborts the RAG sub-pipeline.
var ErrRetrievalExhausted = errors.New("retrieval attempts exhausted")

const (
	defaultTopK        = 5
	defaultMaxAttempts = 3
)

// Retriever wraps the retrieval capability with bounded retry and
// exponential backoff. Every failure from the capability is treated as
// transient until attempts run out.
type Retriever struct {
	searcher    knowledge.Searcher
	topK        int
	maxAttempts int
	backoffUnit time.Duration
	onBackoff   func(time.Duration)
}

// RetrieverOption customizes Retriever behavior.
type RetrieverOption func(*Retriever)

// WithTopK overrides the number of documents requested per search.
func WithTopK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithMaxAttempts overrides the retry budget.
func WithMaxAttempts(n int) RetrieverOption {
	return func(r *Retriever) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithBackoffUnit scales the backoff schedule. The default unit is one
// second; tests shrink it to avoid real sleeps.
func WithBackoffUnit(unit time.Duration) RetrieverOption {
	return func(r *Retriever) {
		if unit > 0 {
			r.backoffUnit = unit
		}
	}
}

// WithBackoffHook registers a callback invoked with each backoff wait before
// it is slept.
func WithBackoffHook(hook func(time.Duration)) RetrieverOption {
	return func(r *Retriever) { r.onBackoff = hook }
}

func NewRetriever(searcher knowledge.Searcher, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		searcher:    searcher,
		topK:        defaultTopK,
		maxAttempts: defaultMaxAttempts,
		backoffUnit: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// backoffDelay computes the wait before retry attempt+1:
// 2^attempt + 0.1*attempt units, attempt counted from zero.
func backoffDelay(attempt int, unit time.Duration) time.Duration {
	units := math.Pow(2, float64(attempt)) + 0.1*float64(attempt)
	return time.Duration(units * float64(unit))
}

// Retrieve searches for the top-K nearest documents, retrying transient
// failures. Exhausting the budget returns ErrRetrievalExhausted.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]core.RetrievedDoc, error) {
	log := logger.FromContext(ctx)
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(r.maxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		wait := backoffDelay(attempt, r.backoffUnit)
		log.Warn("Retrieval failed, backing off",
			"attempt", attempt+1, "max_attempts", r.maxAttempts, "wait", wait)
		if r.onBackoff != nil {
			r.onBackoff(wait)
		}
		attempt++
		return wait, false
	}))

	var docs []core.RetrievedDoc
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var searchErr error
		docs, searchErr = r.searcher.Search(ctx, query, r.topK)
		if searchErr != nil {
			return retry.RetryableError(searchErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed after %d attempts: %w", ErrRetrievalExhausted, r.maxAttempts, err)
	}
	return docs, nil
}
