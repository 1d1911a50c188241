// Package breaker adapts github.com/sony/gobreaker into a three-state
// circuit breaker: closed, half-open, open, tripped after a fixed number
// of consecutive failures and probed again after a recovery timeout.
package breaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// State mirrors gobreaker's state enumeration under this package's own
// naming.
type State string

const (
	StateClosed   State = "closed"
	StateHalfOpen State = "half-open"
	StateOpen     State = "open"
)

// ErrOpen is returned by Call when the breaker is open and short-circuits
// the request without invoking the wrapped function.
var ErrOpen = errors.New("breaker: circuit is open")

// Config configures a Breaker.
type Config struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker from closed to open. Default: 5.
	FailureThreshold uint32
	// RecoveryTimeout is how long the breaker stays open before allowing
	// one half-open trial request. Default: 60s.
	RecoveryTimeout time.Duration
}

// DefaultConfig returns the documented default breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
	}
}

// Breaker is a per-provider circuit breaker.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New constructs a Breaker named for a single provider.
func New(name string, cfg Config) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.RecoveryTimeout == 0 {
		cfg.RecoveryTimeout = DefaultConfig().RecoveryTimeout
	}

	settings := gobreaker.Settings{
		Name:    name,
		Timeout: cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Call executes fn through the breaker. If the breaker is open, fn is never
// invoked and ErrOpen is returned. Any error returned by fn counts as a
// failure toward the trip threshold; a nil error counts as a success and,
// from half-open, closes the breaker.
func (b *Breaker) Call(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

// State reports the breaker's current state.
func (b *Breaker) State() State {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// IsOpen reports whether a call would currently be short-circuited.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}
