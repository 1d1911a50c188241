// Package cache is the persistent result cache: it maps a batch cache key
// to a previously computed AnalysisResult, invalidated by TTL expiry,
// fingerprint drift, or capacity pressure. Grounded on
// calvinalkan-agent-task's gob-encoded TicketCache (same encode/decode/
// atomic-rename/file-lock discipline), generalized with TTL and
// eviction bookkeeping from the original cache manager.
package cache

import "time"

// Entry is one cached analysis, keyed externally by its batch cache key.
type Entry struct {
	Result       AnalysisResultSnapshot
	Fingerprints map[string]string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	AccessCount  int
	LastAccessed time.Time
}

// AnalysisResultSnapshot is the gob-serializable mirror of
// cleanup.AnalysisResult. The cache package does not import pkg/cleanup's
// concrete struct directly into its gob stream to keep the on-disk format
// decoupled from that package's internal layout; Store.Get/Put convert at
// the boundary (see convert.go).
type AnalysisResultSnapshot struct {
	Recommendations []RecommendationSnapshot
	Mode            string
	ErrorKind       string
	FileCount       int
	DurationNanos   int64
	BatchSize       int
}

// RecommendationSnapshot mirrors cleanup.Recommendation.
type RecommendationSnapshot struct {
	Path       string
	Category   string
	Action     string
	Confidence float64
	Rationale  string
	Risk       string
}

// document is the gob-encoded root object persisted to disk. byte 0 of the
// file is formatVersion, written outside the gob stream so an old-format
// file with a different version byte can be detected and ignored without
// attempting to decode it.
type document struct {
	Entries map[string]Entry
}
