// Package batching implements adaptive batch sizing and the
// resilience wrapper (retry + circuit breaker) around a single sub-batch
// LLM call.
package batching

import "time"

const latencyRingCapacity = 10

// Config configures the adaptive batch-size rule.
type Config struct {
	Min      int
	Max      int
	Target   time.Duration
	Adaptive bool

	// samples holds up to latencyRingCapacity most recent observed
	// latencies, oldest first.
	samples []time.Duration
}

// DefaultConfig returns the default batching configuration: min=50,
// max=100, target=3s, adaptive enabled.
func DefaultConfig() Config {
	return Config{
		Min:      50,
		Max:      100,
		Target:   3 * time.Second,
		Adaptive: true,
	}
}

// RecordLatency appends an observed sub-batch latency to the ring, evicting
// the oldest sample once the ring is full.
func (c *Config) RecordLatency(d time.Duration) {
	c.samples = append(c.samples, d)
	if len(c.samples) > latencyRingCapacity {
		c.samples = c.samples[len(c.samples)-latencyRingCapacity:]
	}
}

// Samples returns a copy of the current latency ring, for inspection/tests.
func (c *Config) Samples() []time.Duration {
	out := make([]time.Duration, len(c.samples))
	copy(out, c.samples)
	return out
}

// NextSize computes the batch size to use for the next sub-batch, given the
// current configuration and the number of files remaining to batch:
//
//   - adaptive disabled          -> size = max
//   - fewer than 3 samples       -> size = min
//   - else, using the mean of the last 5 samples t̄:
//       t̄ > target          -> size = max(min, floor(0.8*max))
//       t̄ < 0.7*target      -> size = min(max, floor(1.1*max))
//       otherwise            -> size = max
//
// The final size is always clamped to inputSize and is never below 1.
func (c *Config) NextSize(inputSize int) int {
	var size int
	switch {
	case !c.Adaptive:
		size = c.Max
	case len(c.samples) < 3:
		size = c.Min
	default:
		size = c.adaptiveSize()
	}

	if size > inputSize {
		size = inputSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

func (c *Config) adaptiveSize() int {
	recent := c.samples
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	var total time.Duration
	for _, s := range recent {
		total += s
	}
	mean := total / time.Duration(len(recent))

	switch {
	case mean > c.Target:
		size := int(float64(c.Max) * 0.8)
		if size < c.Min {
			size = c.Min
		}
		return size
	case float64(mean) < 0.7*float64(c.Target):
		size := int(float64(c.Max) * 1.1)
		if size > c.Max {
			size = c.Max
		}
		return size
	default:
		return c.Max
	}
}

// Split divides n items into sub-batch sizes, each equal to size except
// possibly the last, which may be smaller (but never below 1, and never
// emitted as a zero-length batch for non-zero n).
func Split(n, size int) []int {
	if n <= 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	var sizes []int
	for remaining := n; remaining > 0; {
		take := size
		if take > remaining {
			take = remaining
		}
		sizes = append(sizes, take)
		remaining -= take
	}
	return sizes
}
