package batching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextSize_AdaptiveDisabled(t *testing.T) {
	c := DefaultConfig()
	c.Adaptive = false
	assert.Equal(t, c.Max, c.NextSize(1000))
}

func TestNextSize_FewerThanThreeSamples(t *testing.T) {
	c := DefaultConfig()
	c.RecordLatency(1 * time.Second)
	assert.Equal(t, c.Min, c.NextSize(1000))
}

func TestNextSize_SlowMeanShrinksBatch(t *testing.T) {
	c := DefaultConfig()
	for i := 0; i < 5; i++ {
		c.RecordLatency(5 * time.Second) // > target (3s)
	}
	got := c.NextSize(1000)
	assert.LessOrEqual(t, got, c.Max)
	assert.GreaterOrEqual(t, got, c.Min)
	assert.Equal(t, 80, got) // floor(0.8*100)
}

func TestNextSize_FastMeanGrowsBatch(t *testing.T) {
	c := DefaultConfig()
	for i := 0; i < 5; i++ {
		c.RecordLatency(1 * time.Second) // < 0.7*target (2.1s)
	}
	got := c.NextSize(1000)
	assert.Equal(t, 100, got) // min(max, floor(1.1*100))
}

func TestNextSize_MonotoneWhenConsistentlySlow(t *testing.T) {
	c := DefaultConfig()
	for i := 0; i < 5; i++ {
		c.RecordLatency(10 * time.Second)
	}
	first := c.NextSize(1000)
	c.RecordLatency(10 * time.Second)
	second := c.NextSize(1000)
	assert.LessOrEqual(t, second, first)
}

func TestNextSize_NeverExceedsInputSize(t *testing.T) {
	c := DefaultConfig()
	c.Adaptive = false
	assert.Equal(t, 5, c.NextSize(5))
}

func TestNextSize_RingBounded(t *testing.T) {
	c := DefaultConfig()
	for i := 0; i < 50; i++ {
		c.RecordLatency(time.Duration(i) * time.Millisecond)
	}
	assert.Len(t, c.Samples(), latencyRingCapacity)
}

func TestSplit_EvenAndRemainder(t *testing.T) {
	assert.Equal(t, []int{50, 50, 20}, Split(120, 50))
	assert.Equal(t, []int{1}, Split(1, 50))
	assert.Nil(t, Split(0, 50))
}
