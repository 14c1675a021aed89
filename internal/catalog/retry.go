package catalog

import (
	"context"
	"math/rand"
	"time"
)

// Retry delays for upstream GETs. Attempt 1 waits 100ms, attempt 2 300ms,
// attempt 3 and later 900ms.
var retryDelays = []time.Duration{
	100 * time.Millisecond,
	300 * time.Millisecond,
	900 * time.Millisecond,
}

const (
	// DefaultMaxAttempts is the default number of attempts per request.
	DefaultMaxAttempts = 3

	// JitterFactor is the ±percentage of jitter applied to delays.
	JitterFactor = 0.2
)

// NextRetryDelay calculates the delay before the next attempt.
// attemptCount is 0-indexed (after the first failed attempt, attemptCount = 0).
func NextRetryDelay(attemptCount int) time.Duration {
	if attemptCount < 0 {
		attemptCount = 0
	}
	if attemptCount >= len(retryDelays) {
		attemptCount = len(retryDelays) - 1
	}

	base := retryDelays[attemptCount]

	jitterRange := float64(base) * JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

// IsExhausted returns true if max attempts have been reached.
func IsExhausted(attemptCount, maxAttempts int) bool {
	return attemptCount >= maxAttempts
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
