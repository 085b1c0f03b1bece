package polyglot

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries     int           // Retry attempts after the first call (0 disables retries)
	BaseDelay      time.Duration // Initial delay between attempts, doubled each retry
	MaxDelay       time.Duration // Upper bound on the inter-attempt delay
	AttemptTimeout time.Duration // Time bound on each individual attempt (0 = unbounded)
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		BaseDelay:      1 * time.Second,
		MaxDelay:       30 * time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// RetryFunc is a single attempt of a retryable call. The context carries the
// per-attempt deadline.
type RetryFunc[T any] func(ctx context.Context) (T, error)

// WithRetry executes fn with exponential backoff. A retryable failure is
// reattempted until the budget is spent, then the last classified error is
// returned. A non-retryable failure is returned after exactly one attempt.
// An attempt that exceeds AttemptTimeout counts as a network failure and is
// retryable; cancellation of the parent context is not and aborts
// immediately.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		attemptCtx := ctx
		cancel := func() {}
		if cfg.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.AttemptTimeout)
		}
		result, err := fn(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		// The attempt hit its own deadline, not the caller's.
		if errors.Is(err, context.DeadlineExceeded) {
			err = &RequestError{Kind: KindNetwork, Message: "request timed out", Cause: err}
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}
