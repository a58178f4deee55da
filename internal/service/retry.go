package service

import (
	"errors"
	"time"
)

// RetryPolicy computes backoff delays and attempt exhaustion for the
// retrying sync path. It is a pure value: no clock, no side effects, fully
// deterministic given its inputs.
type RetryPolicy struct {
	// MaxAttempts bounds the retry loop.
	MaxAttempts int

	// Unit scales both delay formulas. Zero means one second; tests shrink it
	// so backoff assertions do not sleep for real seconds.
	Unit time.Duration
}

// NewRetryPolicy returns a policy with the default attempt budget of 3.
func NewRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3}
}

// Delay returns the backoff before retry number attempt (1-based). Generic
// transient errors back off exponentially: attempts 1, 2, 3 wait 2s, 4s, 8s.
// Quota exhaustion is not a blip that clears in seconds, so it backs off
// linearly in minutes: 60s, 120s, 180s.
func (p RetryPolicy) Delay(attempt int, err error) time.Duration {
	unit := p.Unit
	if unit <= 0 {
		unit = time.Second
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return time.Duration(attempt) * 60 * unit
	}
	return time.Duration(1<<uint(attempt)) * unit
}

// ShouldRetry reports whether another attempt is allowed after attempt
// attempts have run.
func (p RetryPolicy) ShouldRetry(attempt int) bool {
	return attempt < p.MaxAttempts
}
