// Package retry provides a bounded, strictly sequential retry executor.
package retry

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Decision is returned by the per-attempt failure hook.
type Decision int

const (
	// Continue lets the executor move on to the next attempt.
	Continue Decision = iota
	// Abort stops retrying immediately; the failing attempt's error is
	// propagated unchanged. Meant for fatal, non-retryable failures.
	Abort
)

// Policy bounds the executor. Delay, when positive, is slept between
// attempts; attempt ordering is preserved either way.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Error reports an exhausted retry run. Attempts holds every attempt's
// error in attempt order; its length always equals the attempt budget.
type Error struct {
	Attempts []error
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Attempts))
	for i, err := range e.Attempts {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all %d attempts failed: %s", len(e.Attempts), strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() []error {
	return e.Attempts
}

// Hook observes a failed attempt and decides whether to keep going.
// Attempts are numbered from 1. A nil hook always continues.
type Hook func(attempt int, err error) Decision

// Do runs op until it succeeds, the hook aborts, the context is cancelled
// between attempts, or the attempt budget is exhausted. Attempts never
// overlap: each one starts only after the previous outcome is known.
//
// On exhaustion the returned error is a *Error aggregating every attempt's
// cause. On abort the aborting attempt's error is returned as-is. An abort
// only prevents further attempts; it cannot cancel an in-flight one.
func Do[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error), onFailure Hook) (T, error) {
	var zero T

	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := make([]error, 0, maxAttempts)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		attempts = append(attempts, err)

		if onFailure != nil && onFailure(attempt, err) == Abort {
			return zero, err
		}

		if attempt == maxAttempts {
			break
		}
		if policy.Delay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(policy.Delay):
			}
		} else if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, &Error{Attempts: attempts}
}
