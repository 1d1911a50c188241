package cache

import (
	"sync"
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
)

// Config controls TTL, capacity, and eviction cadence.
type Config struct {
	Dir             string
	TTL             time.Duration
	MaxSizeBytes    int64
	MaxEntries      int
	CleanupInterval time.Duration
	FileLockTimeout time.Duration
}

// DefaultConfig returns the documented default cache configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:             dir,
		TTL:             24 * time.Hour,
		MaxSizeBytes:    100 * 1024 * 1024,
		MaxEntries:      10000,
		CleanupInterval: 6 * time.Hour,
		FileLockTimeout: 10 * time.Second,
	}
}

// Stats is the human-readable statistics persisted to cache_metadata.json.
type Stats struct {
	Hits        int       `json:"hits"`
	Misses      int       `json:"misses"`
	Evictions   int       `json:"evictions"`
	EntryCount  int       `json:"entry_count"`
	SizeBytes   int64     `json:"size_bytes"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// Store is the in-memory, disk-backed result cache. A single RWMutex
// guards the in-memory map; disk persistence is additionally serialized
// by a file lock (internal/filelock), so concurrent Get/Put from multiple
// goroutines never corrupt the file.
type Store struct {
	cfg Config

	mu      sync.RWMutex
	entries map[string]Entry
	stats   Stats
}

// New constructs a Store, loading any existing on-disk cache. A
// deserialization error or version mismatch is treated as an empty cache,
// never a fatal error.
func New(cfg Config) (*Store, error) {
	s := &Store{cfg: cfg, entries: map[string]Entry{}}
	loaded, stats, err := loadDocument(cfg)
	if err == nil {
		s.entries = loaded.Entries
		s.stats = stats
	}
	if s.entries == nil {
		s.entries = map[string]Entry{}
	}
	s.stats.LastCleanup = time.Now()
	return s, nil
}

// Get returns the cached AnalysisResult for files/params iff an entry
// exists, has not expired, and every stored fingerprint still matches the
// current fingerprint of its file (i.e. no drift). A miss — for any
// reason — increments the miss counter. The returned result's Summary,
// including BatchSizeUsed, is reconstructed entirely from what was stored
// on the matching Put — never from the caller's current batch sizing — so
// repeated hits stay byte-identical regardless of how adaptive batch
// sizing has since moved.
func (s *Store) Get(files []filemeta.FileMeta, params filemeta.BatchKeyParams) (cleanup.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maybeCleanupLocked(false)

	key := filemeta.BatchKey(files, params)
	entry, ok := s.entries[key]
	if !ok {
		s.stats.Misses++
		return cleanup.AnalysisResult{}, false
	}

	if time.Now().After(entry.ExpiresAt) {
		s.stats.Misses++
		return cleanup.AnalysisResult{}, false
	}

	current := filemeta.Fingerprints(files)
	for path, fp := range entry.Fingerprints {
		if current[path] != fp {
			s.stats.Misses++
			return cleanup.AnalysisResult{}, false
		}
	}

	entry.AccessCount++
	entry.LastAccessed = time.Now()
	s.entries[key] = entry
	s.stats.Hits++

	return fromSnapshot(entry.Result), true
}

// Put inserts or replaces the cached entry for files/params with the
// given TTL, then persists the store to disk.
func (s *Store) Put(files []filemeta.FileMeta, params filemeta.BatchKeyParams, result cleanup.AnalysisResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := filemeta.BatchKey(files, params)
	now := time.Now()
	s.entries[key] = Entry{
		Result:       toSnapshot(result),
		Fingerprints: filemeta.Fingerprints(files),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		AccessCount:  0,
		LastAccessed: now,
	}
	s.recomputeCountLocked()
	return s.persistLocked()
}

// Invalidate removes every entry whose fingerprint map references path.
func (s *Store) Invalidate(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if _, ok := entry.Fingerprints[path]; ok {
			delete(s.entries, key)
		}
	}
	s.recomputeCountLocked()
	return s.persistLocked()
}

// Clear empties the store and persists the empty state.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = map[string]Entry{}
	s.stats.EntryCount = 0
	s.stats.SizeBytes = 0
	return s.persistLocked()
}

// StatsSnapshot returns a copy of the current statistics.
func (s *Store) StatsSnapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Cleanup forces the eviction policy to run immediately instead of
// waiting for the next opportunistic Get-triggered pass, persisting the
// result afterward.
func (s *Store) Cleanup(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeCleanupLocked(force)
	return s.persistLocked()
}

func (s *Store) recomputeCountLocked() {
	s.stats.EntryCount = len(s.entries)
}
