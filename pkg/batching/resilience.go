package batching

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/breaker"
)

// RetryConfig configures the exponential-backoff retry policy wrapped
// around a single sub-batch call.
type RetryConfig struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	JitterPct  uint64
}

// DefaultRetryConfig returns the default retry policy: base=1s, max=60s,
// max_retries=3, ±10% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   60 * time.Second,
		JitterPct:  10,
	}
}

// Resilience composes the retry-with-backoff policy with a per-provider
// circuit breaker around a single sub-batch call.
type Resilience struct {
	retryCfg RetryConfig
	br       *breaker.Breaker
}

// NewResilience builds a Resilience wrapper for one provider's breaker.
func NewResilience(retryCfg RetryConfig, br *breaker.Breaker) *Resilience {
	return &Resilience{retryCfg: retryCfg, br: br}
}

// Do executes fn, retrying transient failures with exponential backoff and
// jitter up to MaxRetries times, all inside the circuit breaker. If the
// breaker is open, fn is never invoked (callers should check br.IsOpen()
// first to avoid even entering Do, but Do is itself safe to call
// unconditionally). Every invocation of fn that returns a non-nil error
// counts as one breaker failure.
func (r *Resilience) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoffPolicy, err := retry.NewExponential(r.retryCfg.BaseDelay)
	if err != nil {
		return fmt.Errorf("batching: invalid base delay: %w", err)
	}
	backoffPolicy = retry.WithJitterPercent(r.retryCfg.JitterPct, backoffPolicy)
	backoffPolicy = retry.WithCappedDuration(r.retryCfg.MaxDelay, backoffPolicy)
	backoffPolicy = retry.WithMaxRetries(r.retryCfg.MaxRetries, backoffPolicy)

	return retry.Do(ctx, backoffPolicy, func(ctx context.Context) error {
		callErr := r.br.Call(func() error {
			return fn(ctx)
		})
		if callErr == nil {
			return nil
		}
		if callErr == breaker.ErrOpen {
			// Breaker is open: short-circuiting further retries is the
			// correct behavior, not a transient condition to retry past.
			return callErr
		}
		return retry.RetryableError(callErr)
	})
}
