package util

import (
	"context"
	"errors"
	"time"
)

// Backoff returns how long to wait before the attempt following attempt n
// (1-based). A non-positive duration means no wait.
type Backoff func(attempt int) time.Duration

// ExponentialBackoff doubles base after every failed attempt:
// base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if base <= 0 || attempt < 1 {
			return 0
		}
		return base * time.Duration(1<<(attempt-1))
	}
}

// RetryWithBackoff calls fn at most maxTries times, waiting backoff(n) after
// the n-th failure. No wait follows the final attempt. A canceled context
// stops both attempts and waits. If maxTries <= 0, it defaults to 1.
func RetryWithBackoff[T any](
	ctx context.Context,
	maxTries int,
	backoff Backoff,
	fn func(context.Context) (T, error),
) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 1; i <= maxTries; i++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err

		if i == maxTries || backoff == nil {
			continue
		}
		if wait := backoff(i); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}
	return zero, lastErr
}
