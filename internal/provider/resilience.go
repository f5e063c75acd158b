// Package provider holds the resilience plumbing shared by every external
// call the pipeline makes: the embedding provider (C3), the LLM provider
// (C4), and the single reconnect-after-backoff rule in the data access
// layer (C2). It is grounded on scoracle-data's internal/provider/bdl
// client — a rate-limited HTTP client wrapper — generalized from one
// upstream sports API to "any remote call that can be retried or tripped".
package provider

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
)

// RetryConfig describes a bounded exponential backoff.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// WithRetry runs fn, retrying up to cfg.MaxRetries times with exponential
// backoff when fn returns a retryable error (wrap with retry.RetryableError
// to mark a specific failure as transient).
func WithRetry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	b := retry.NewExponential(cfg.BaseDelay)
	b = retry.WithMaxRetries(uint64(cfg.MaxRetries), b)
	return retry.Do(ctx, b, func(ctx context.Context) error {
		return fn(ctx)
	})
}

// NewBreaker builds a circuit breaker for one named external dependency,
// tripping after 3 consecutive failures and probing again after 30s —
// grounded on the gobreaker.Settings shape used in jordigilh-kubernaut's
// notification circuit breaker.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}
