// Package retry wraps fallible operations with bounded exponential backoff.
// It backs artifact downloads and LLM calls; polling deliberately does not
// use it, since the poll interval is the pacing mechanism there.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultBaseDelay = 1 * time.Second
	defaultMaxDelay  = 0 // unlimited
)

// ErrAttemptsExhausted indicates the operation failed on every attempt.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable. Do stops immediately and returns the
// original error without the exhaustion wrapper.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Executor runs operations with a bounded attempt budget. The delay before
// attempt n+1 is baseDelay * 2^(n-1): base, then double after each failure.
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	sleeper     func(time.Duration)
}

// Option customizes the executor.
type Option func(*Executor)

// WithBaseDelay overrides the first backoff delay (defaults to one second).
func WithBaseDelay(delay time.Duration) Option {
	return func(e *Executor) {
		e.baseDelay = delay
	}
}

// WithMaxDelay caps individual backoff delays. Zero means uncapped.
func WithMaxDelay(delay time.Duration) Option {
	return func(e *Executor) {
		e.maxDelay = delay
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(e *Executor) {
		e.sleeper = sleeper
	}
}

// New constructs an executor with the given attempt budget.
func New(maxAttempts int, opts ...Option) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	e := &Executor{
		maxAttempts: maxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do runs op until it succeeds or the attempt budget is spent. Between
// failures it sleeps with doubling delays; the final failure is returned
// wrapped in ErrAttemptsExhausted so callers can classify it.
func (e *Executor) Do(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := e.sleep(ctx, e.delay(attempt-1)); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
	}
	return fmt.Errorf("%w: failed after %d attempts: %w", ErrAttemptsExhausted, e.maxAttempts, lastErr)
}

// Do runs op with a one-off executor; see Executor.Do.
func Do(ctx context.Context, maxAttempts int, op func(context.Context) error, opts ...Option) error {
	return New(maxAttempts, opts...).Do(ctx, op)
}

func (e *Executor) delay(failureIndex int) time.Duration {
	delay := e.baseDelay
	for i := 0; i < failureIndex; i++ {
		delay *= 2
		if e.maxDelay > 0 && delay >= e.maxDelay {
			return e.maxDelay
		}
	}
	if e.maxDelay > 0 && delay > e.maxDelay {
		return e.maxDelay
	}
	return delay
}

func (e *Executor) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if e.sleeper != nil {
		e.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
