package cache

import (
	"bytes"
	"encoding/gob"
	"sort"
	"time"
)

// maybeCleanupLocked runs cleanup if force is true or the configured
// cleanup interval has elapsed since the last run. Caller must hold s.mu.
func (s *Store) maybeCleanupLocked(force bool) {
	if !force && time.Since(s.stats.LastCleanup) < s.cfg.CleanupInterval {
		return
	}
	s.cleanupLocked()
}

// cleanupLocked applies the three-stage eviction policy: drop expired
// entries, then drop by oldest-last-accessed if over the entry cap, then
// drop by ascending (access-count, last-accessed) if over the size cap.
// Caller must hold s.mu.
func (s *Store) cleanupLocked() {
	now := time.Now()
	for key, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, key)
		}
	}

	if s.cfg.MaxEntries > 0 && len(s.entries) > s.cfg.MaxEntries {
		type keyed struct {
			key   string
			entry Entry
		}
		all := make([]keyed, 0, len(s.entries))
		for k, e := range s.entries {
			all = append(all, keyed{k, e})
		}
		sort.Slice(all, func(i, j int) bool {
			return all[i].entry.LastAccessed.Before(all[j].entry.LastAccessed)
		})
		excess := len(s.entries) - s.cfg.MaxEntries
		for i := 0; i < excess; i++ {
			delete(s.entries, all[i].key)
			s.stats.Evictions++
		}
	}

	if s.cfg.MaxSizeBytes > 0 {
		s.evictBySizeLocked()
	}

	s.stats.LastCleanup = now
	s.recomputeCountLocked()
}

// evictBySizeLocked drops entries in ascending (access-count,
// last-accessed) order until the gob-serialized store is at most 80% of
// the configured size cap.
func (s *Store) evictBySizeLocked() {
	size := s.serializedSizeLocked()
	targetCap := (s.cfg.MaxSizeBytes * 80) / 100
	if size <= s.cfg.MaxSizeBytes {
		return
	}

	type keyed struct {
		key   string
		entry Entry
	}
	all := make([]keyed, 0, len(s.entries))
	for k, e := range s.entries {
		all = append(all, keyed{k, e})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].entry.AccessCount != all[j].entry.AccessCount {
			return all[i].entry.AccessCount < all[j].entry.AccessCount
		}
		return all[i].entry.LastAccessed.Before(all[j].entry.LastAccessed)
	})

	for _, kv := range all {
		if size <= targetCap {
			break
		}
		delete(s.entries, kv.key)
		s.stats.Evictions++
		size = s.serializedSizeLocked()
	}
}

func (s *Store) serializedSizeLocked() int64 {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(document{Entries: s.entries}); err != nil {
		return 0
	}
	s.stats.SizeBytes = int64(buf.Len())
	return s.stats.SizeBytes
}
