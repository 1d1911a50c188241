// Package diag exposes read-only health and usage snapshots of a running
// Orchestrator, meant for a CLI's `status`/`diag` subcommand or a
// lightweight health-check endpoint. It holds no state of its own — every
// field is copied out of the orchestrator at call time.
package diag

import (
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/breaker"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cache"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/orchestrator"
)

// Report is a point-in-time snapshot of pipeline health: usage counters,
// breaker state, and cache statistics.
type Report struct {
	Usage        orchestrator.UsageStats
	BreakerState breaker.State
	Cache        cache.Stats
	GeneratedAt  time.Time
}

// source is the narrow capability interface diag reads through, letting
// tests substitute a fake orchestrator-shaped object without constructing
// a real Orchestrator (and its vault/cache/breaker dependencies).
type source interface {
	UsageSnapshot() orchestrator.UsageStats
	BreakerState() breaker.State
	CacheStats() cache.Stats
}

// Snapshot builds a Report from a live Orchestrator.
func Snapshot(o *orchestrator.Orchestrator) Report {
	return snapshotFrom(o)
}

func snapshotFrom(o source) Report {
	return Report{
		Usage:        o.UsageSnapshot(),
		BreakerState: o.BreakerState(),
		Cache:        o.CacheStats(),
		GeneratedAt:  time.Now(),
	}
}

// Healthy reports whether the pipeline is in a fully-nominal state: the
// breaker closed, each daily counter under its cap, and session cost under
// the session cap. Unlike the orchestrator's own gate, the session check
// does not add one more request's cost.
func (r Report) Healthy(limits LimitsView) bool {
	if r.BreakerState != breaker.StateClosed {
		return false
	}
	if r.Usage.RequestsToday >= limits.MaxDailyRequests {
		return false
	}
	if r.Usage.TokensToday >= limits.MaxDailyTokens {
		return false
	}
	if r.Usage.CostToday >= limits.MaxDailyCost {
		return false
	}
	if r.Usage.SessionCost >= limits.MaxSessionCost {
		return false
	}
	return true
}

// LimitsView is the subset of config.LimitsConfig needed to judge health,
// kept separate so this package does not need to import pkg/config just to
// read four numbers.
type LimitsView struct {
	MaxDailyRequests int
	MaxDailyTokens   int
	MaxDailyCost     float64
	MaxSessionCost   float64
}
