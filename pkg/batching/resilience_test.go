package batching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/breaker"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		JitterPct:  10,
	}
}

func TestResilience_RetriesThenSucceeds(t *testing.T) {
	br := breaker.New("test", breaker.Config{FailureThreshold: 10, RecoveryTimeout: time.Second})
	r := NewResilience(fastRetryConfig(), br)

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestResilience_ExhaustsRetriesAndFails(t *testing.T) {
	br := breaker.New("test", breaker.Config{FailureThreshold: 100, RecoveryTimeout: time.Second})
	r := NewResilience(fastRetryConfig(), br)

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("always fails")
	})

	require.Error(t, err)
	assert.Equal(t, 4, attempts) // initial attempt + 3 retries
}

func TestResilience_BreakerOpenShortCircuits(t *testing.T) {
	br := breaker.New("test", breaker.Config{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	r := NewResilience(fastRetryConfig(), br)

	// Trip the breaker.
	_ = br.Call(func() error { return errors.New("boom") })
	require.True(t, br.IsOpen())

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, breaker.ErrOpen)
	assert.Equal(t, 0, calls)
}
