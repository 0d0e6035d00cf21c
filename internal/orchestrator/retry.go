package orchestrator

// #region imports
import (
	"context"
	"errors"
)

// #endregion

// #region constants

// DefaultMaxAttempts allows the first provider plus one fallback.
const DefaultMaxAttempts = 2

// #endregion

// #region policy

// FallbackPolicy bounds how many providers one query may try.
type FallbackPolicy struct {
	MaxAttempts int
}

// NewFallbackPolicy returns a policy allowing maxAttempts attempts in total.
// Values below 1 mean DefaultMaxAttempts.
func NewFallbackPolicy(maxAttempts int) FallbackPolicy {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return FallbackPolicy{MaxAttempts: maxAttempts}
}

// Limit is the attempt budget for one call. Disallowing fallback means a
// single attempt.
func (p FallbackPolicy) Limit(allowFallback bool) int {
	if !allowFallback || p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// #endregion

// #region should-fallback

// ShouldFallback reports whether another provider should be tried.
// attempts contains every attempt so far, the latest last.
func (p FallbackPolicy) ShouldFallback(attempts []Attempt, allowFallback bool) bool {
	if len(attempts) == 0 {
		return false
	}

	// Budget spent
	if len(attempts) >= p.Limit(allowFallback) {
		return false
	}

	latest := attempts[len(attempts)-1]
	if latest.Err == nil {
		return false
	}
	if errors.Is(latest.Err, ErrNoProviderAvailable) || errors.Is(latest.Err, context.Canceled) {
		return false
	}
	return true
}

// #endregion
