package maps

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

const (
	maxAttempts = 3
	baseBackoff = 200 * time.Millisecond
)

// doWithRetry retries transient failures (network errors, quota blips) using
// exponential backoff while respecting context cancellation.
func doWithRetry[T any](ctx context.Context, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	backoff := baseBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := call()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !isTransient(err) || attempt == maxAttempts {
			return zero, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return zero, lastErr
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "OVER_QUERY_LIMIT") ||
		strings.Contains(msg, "UNKNOWN_ERROR") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
