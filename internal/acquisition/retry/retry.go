// Package retry implements a small exponential-backoff helper for
// per-source calls: up to a small bound (default 3 attempts),
// generalized from the prior pipeline.Config.RetryAttempts field.
package retry

import (
	"context"
	"time"
)

// Params configures the backoff schedule.
type Params struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultParams is three attempts with a 200ms base delay, doubling each
// retry (waits of 200ms and then 400ms between the three attempts).
func DefaultParams() Params {
	return Params{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond}
}

// Do calls fn, retrying with exponential backoff until it succeeds, the
// context is cancelled, or MaxAttempts is exhausted. It returns the last
// error if every attempt failed.
func Do(ctx context.Context, params Params, fn func() error) error {
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = 1
	}

	var lastErr error
	delay := params.BaseDelay
	for attempt := 1; attempt <= params.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == params.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return lastErr
}
