package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytimport/internal/shared"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d, returning early with the context error when ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryPolicy is a fixed-count, fixed-delay retry policy.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Sleep    SleepFunc
	Logger   *log.Logger
}

// Retry calls fn until it succeeds or the policy's attempts are used up.
//
// There is no sleep after the final attempt. When every attempt fails the returned error wraps
// both [shared.ErrRetriesExhausted] and the last attempt's error. Context cancellation is
// returned as is.
func Retry[T any](ctx context.Context, p RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(p.Attempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		last = err

		if p.Logger != nil {
			p.Logger.Debug("remote call failed", "op", op, "attempt", attempt, "of", attempts, "error", err)
		}

		if attempt < attempts {
			if err := sleep(ctx, p.Delay); err != nil {
				return zero, err
			}
		}
	}

	return zero, fmt.Errorf("%w: %s after %d attempts: %w", shared.ErrRetriesExhausted, op, attempts, last)
}

// retryDo is [Retry] for calls without a result.
func retryDo(ctx context.Context, p RetryPolicy, op string, fn func(context.Context) error) error {
	_, err := Retry(ctx, p, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
