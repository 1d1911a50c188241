package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	natomic "github.com/natefinch/atomic"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/internal/filelock"
)

// formatVersion is the leading byte of analysis_cache_v2.bin. A file
// carrying any other version byte is treated as empty, never decoded —
// this is what lets the format change in the future without crashing on
// an old cache directory.
const formatVersion byte = 2

func cacheFilePath(dir string) string    { return filepath.Join(dir, "analysis_cache_v2.bin") }
func metadataFilePath(dir string) string { return filepath.Join(dir, "cache_metadata.json") }

// loadDocument reads the on-disk cache and stats files. Any read or
// decode failure — missing file, wrong version byte, corrupt gob stream —
// is reported as an error and the caller falls back to an empty cache;
// it is never fatal.
func loadDocument(cfg Config) (document, Stats, error) {
	raw, err := os.ReadFile(cacheFilePath(cfg.Dir))
	if err != nil {
		return document{}, Stats{}, err
	}
	if len(raw) == 0 || raw[0] != formatVersion {
		return document{Entries: map[string]Entry{}}, Stats{}, nil
	}

	var doc document
	if err := gob.NewDecoder(bytes.NewReader(raw[1:])).Decode(&doc); err != nil {
		return document{}, Stats{}, fmt.Errorf("cache: corrupt cache file: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]Entry{}
	}

	var stats Stats
	if statsRaw, err := os.ReadFile(metadataFilePath(cfg.Dir)); err == nil {
		_ = json.Unmarshal(statsRaw, &stats)
	}

	return doc, stats, nil
}

// persistLocked serializes the store to disk: a sibling temp file is
// written and renamed over the live cache file (natefinch/atomic), so a
// crash mid-write never corrupts the previous contents. File-lock
// acquisition is bounded by cfg.FileLockTimeout; on timeout, persistence
// is skipped — the in-memory state is unaffected and the next
// successful Put will try again. Caller must hold s.mu.
func (s *Store) persistLocked() error {
	if s.cfg.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o700); err != nil {
		return fmt.Errorf("cache: failed to create cache directory: %w", err)
	}

	var gobBuf bytes.Buffer
	if err := gob.NewEncoder(&gobBuf).Encode(document{Entries: s.entries}); err != nil {
		return fmt.Errorf("cache: failed to encode cache: %w", err)
	}

	payload := make([]byte, 0, 1+gobBuf.Len())
	payload = append(payload, formatVersion)
	payload = append(payload, gobBuf.Bytes()...)

	path := cacheFilePath(s.cfg.Dir)
	// filelock appends ".lock", so the sentinel is <dir>/cache.lock.
	err := filelock.WithLock(filepath.Join(s.cfg.Dir, "cache"), s.cfg.FileLockTimeout, func() error {
		return natomic.WriteFile(path, bytes.NewReader(payload))
	})
	if err != nil {
		// A lock timeout (or other write failure) skips persistence
		// rather than corrupting the prior file; the caller keeps using
		// the updated in-memory state regardless.
		return nil
	}

	s.stats.SizeBytes = int64(len(payload))
	statsRaw, merr := json.MarshalIndent(s.stats, "", "  ")
	if merr == nil {
		_ = os.WriteFile(metadataFilePath(s.cfg.Dir), statsRaw, 0o600)
	}
	return nil
}
