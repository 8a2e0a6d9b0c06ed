// Package boterr defines the error types that are shared between the
// mirrorbot components and the forge API clients.
package boterr

import (
	"errors"
	"fmt"
	"time"
)

// ErrRetryTimeout is returned when a bounded retry loop exhausted its
// attempts without getting a result.
var ErrRetryTimeout = errors.New("retry timeout expired")

type RetryableError struct {
	// Err is the wrapped original error
	Err error
	// After is the earliest point in time that the operation can be retried
	After time.Time
}

func NewRetryableError(originalErr error, retryAfter time.Time) *RetryableError {
	return &RetryableError{
		Err:   originalErr,
		After: retryAfter,
	}
}

func NewRetryableAnytimeError(originalErr error) *RetryableError {
	return &RetryableError{
		Err: originalErr,
	}
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func (e *RetryableError) Error() string {
	if e.After.IsZero() {
		return fmt.Sprintf("retryable error: %s", e.Err)
	}

	return fmt.Sprintf("retryable error (after %s): %s", e.After, e.Err)
}
