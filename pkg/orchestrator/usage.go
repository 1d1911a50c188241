package orchestrator

import (
	"sync"
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/config"
)

// UsageStats is a point-in-time snapshot of the orchestrator's daily and
// session LLM usage, reset at UTC midnight except for SessionCost, which
// accumulates for the lifetime of the owning Orchestrator — session cost
// is process-lifetime, not calendar-day scoped.
type UsageStats struct {
	RequestsToday      int
	TokensToday        int
	CostToday          float64
	SessionCost        float64
	RateLimitHits      int
	QuotaExceededCount int
}

// usageTracker guards UsageStats and applies the day-boundary rollover,
// including a day boundary crossed mid-Analyze. Day is tracked as a UTC
// calendar date string so the rollover check is a cheap string compare
// rather than a duration computation that could drift across time zones.
type usageTracker struct {
	mu    sync.Mutex
	stats UsageStats
	day   string
}

func newUsageTracker() *usageTracker {
	return &usageTracker{day: todayUTC()}
}

func todayUTC() string {
	return time.Now().UTC().Format("2006-01-02")
}

// rolloverLocked resets the daily counters if the calendar date has
// advanced since the last observation. Must be called with mu held.
func (u *usageTracker) rolloverLocked() {
	d := todayUTC()
	if d != u.day {
		u.stats.RequestsToday = 0
		u.stats.TokensToday = 0
		u.stats.CostToday = 0
		u.stats.RateLimitHits = 0
		u.stats.QuotaExceededCount = 0
		u.day = d
	}
}

// withinLimits reports whether all four usage gates hold:
// requests, tokens, and cost all strictly under their daily caps, and
// session cost plus one more request's flat cost at or under the session
// cap. A false result means the next sub-batch must fall back to the rule
// engine without invoking the transport.
func (u *usageTracker) withinLimits(limits config.LimitsConfig) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rolloverLocked()

	if u.stats.RequestsToday >= limits.MaxDailyRequests {
		return false
	}
	if u.stats.TokensToday >= limits.MaxDailyTokens {
		return false
	}
	if u.stats.CostToday >= limits.MaxDailyCost {
		return false
	}
	if u.stats.SessionCost+limits.CostPerRequest > limits.MaxSessionCost {
		return false
	}
	return true
}

// recordSuccess accounts for one successful LLM call. costPerRequest is
// applied as a flat per-call cost — real per-token pricing is a future
// extension, but session_cost must strictly increase on every successful
// call, which a flat positive cost guarantees.
func (u *usageTracker) recordSuccess(tokens int, costPerRequest float64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rolloverLocked()

	u.stats.RequestsToday++
	u.stats.TokensToday += tokens
	u.stats.CostToday += costPerRequest
	u.stats.SessionCost += costPerRequest
}

func (u *usageTracker) recordRateLimitHit() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats.RateLimitHits++
}

// recordQuotaExceeded counts every fallback-to-rules decision forced by an
// exhausted usage gate, so a quota wall that silently degrades every
// analysis to the rule engine still shows up in a status snapshot.
func (u *usageTracker) recordQuotaExceeded() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats.QuotaExceededCount++
}

func (u *usageTracker) snapshot() UsageStats {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rolloverLocked()
	return u.stats
}
