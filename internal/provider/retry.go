package provider

import (
	"context"
	"fmt"
	"time"
)

const maxBackoff = 30 * time.Second

// RetryProvider retries transient failures of another Provider with
// exponential backoff.
type RetryProvider struct {
	inner      Provider
	maxRetries int
	baseDelay  time.Duration
}

func WithRetry(p Provider, maxRetries int) *RetryProvider {
	return &RetryProvider{inner: p, maxRetries: max(maxRetries, 0), baseDelay: 500 * time.Millisecond}
}

func (r *RetryProvider) Name() string { return r.inner.Name() }

func (r *RetryProvider) ModelName() string { return r.inner.ModelName() }

func (r *RetryProvider) Models(ctx context.Context) ([]string, error) {
	var models []string
	err := r.do(ctx, func() (err error) {
		models, err = r.inner.Models(ctx)
		return err
	})
	return models, err
}

func (r *RetryProvider) Complete(ctx context.Context, msgs []Message) (string, error) {
	var out string
	err := r.do(ctx, func() (err error) {
		out, err = r.inner.Complete(ctx, msgs)
		return err
	})
	return out, err
}

// do runs fn until it succeeds, fails permanently or the retries run out.
func (r *RetryProvider) do(ctx context.Context, fn func() error) error {
	delay := r.baseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == r.maxRetries {
			return fmt.Errorf("after %d retries: %w", r.maxRetries, err)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return err
		}
		delay = min(delay*2, maxBackoff)
	}
}
