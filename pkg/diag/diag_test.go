package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/breaker"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cache"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/orchestrator"
)

type fakeSource struct {
	usage   orchestrator.UsageStats
	state   breaker.State
	stats   cache.Stats
}

func (f fakeSource) UsageSnapshot() orchestrator.UsageStats { return f.usage }
func (f fakeSource) BreakerState() breaker.State            { return f.state }
func (f fakeSource) CacheStats() cache.Stats                { return f.stats }

func TestReport_Healthy_AllGatesOpen(t *testing.T) {
	r := snapshotFrom(fakeSource{state: breaker.StateClosed})
	limits := LimitsView{MaxDailyRequests: 1000, MaxDailyTokens: 50000, MaxDailyCost: 5.0, MaxSessionCost: 0.10}
	assert.True(t, r.Healthy(limits))
}

func TestReport_Unhealthy_BreakerOpen(t *testing.T) {
	r := snapshotFrom(fakeSource{state: breaker.StateOpen})
	limits := LimitsView{MaxDailyRequests: 1000, MaxDailyTokens: 50000, MaxDailyCost: 5.0, MaxSessionCost: 0.10}
	assert.False(t, r.Healthy(limits))
}

func TestReport_Unhealthy_UsageOverLimit(t *testing.T) {
	r := snapshotFrom(fakeSource{state: breaker.StateClosed, usage: orchestrator.UsageStats{RequestsToday: 1000}})
	limits := LimitsView{MaxDailyRequests: 1000, MaxDailyTokens: 50000, MaxDailyCost: 5.0, MaxSessionCost: 0.10}
	assert.False(t, r.Healthy(limits))
}
