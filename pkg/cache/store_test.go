package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
)

func mustFile(t *testing.T, path string, size int64, modified time.Time) filemeta.FileMeta {
	t.Helper()
	fm, err := filemeta.New(path, filepath.Base(path), size, filepath.Ext(path), modified, modified, modified, filepath.Dir(path), false, false)
	require.NoError(t, err)
	return fm
}

func testParams() filemeta.BatchKeyParams {
	return filemeta.BatchKeyParams{Provider: "openai", Model: "gpt-4", Temperature: 0.1, MaxTokens: 4096}
}

func sampleResult() cleanup.AnalysisResult {
	recs := []cleanup.Recommendation{
		{Path: "/tmp/a.tmp", Category: "temporary", Action: cleanup.ActionDelete, Confidence: 0.9, Risk: cleanup.RiskLow},
	}
	return cleanup.AnalysisResult{
		Recommendations: recs,
		Summary:         cleanup.Summarize(recs, cleanup.ModeAI, 1),
		Mode:            cleanup.ModeAI,
		FileCount:       1,
	}
}

func TestStore_PutThenGet_HitsAndIncrementsAccessCount(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	s, err := New(cfg)
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()

	require.NoError(t, s.Put(files, params, sampleResult(), time.Hour))

	got, ok := s.Get(files, params)
	require.True(t, ok)
	assert.Len(t, got.Recommendations, 1)
	assert.Equal(t, "/tmp/a.tmp", got.Recommendations[0].Path)
	assert.Equal(t, 1, s.StatsSnapshot().Hits)
}

func TestStore_Get_ReturnsBatchSizeStoredAtPutTime(t *testing.T) {
	s, err := New(DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()

	recs := []cleanup.Recommendation{
		{Path: "/tmp/a.tmp", Category: "temporary", Action: cleanup.ActionDelete, Confidence: 0.9, Risk: cleanup.RiskLow},
	}
	result := cleanup.AnalysisResult{
		Recommendations: recs,
		Summary:         cleanup.Summarize(recs, cleanup.ModeAI, 7),
		Mode:            cleanup.ModeAI,
		FileCount:       1,
	}
	require.NoError(t, s.Put(files, params, result, time.Hour))

	got, ok := s.Get(files, params)
	require.True(t, ok)
	assert.Equal(t, 7, got.Summary.BatchSizeUsed)
}

func TestStore_Get_MissWhenNeverPut(t *testing.T) {
	s, err := New(DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, time.Now())}
	_, ok := s.Get(files, testParams())
	assert.False(t, ok)
	assert.Equal(t, 1, s.StatsSnapshot().Misses)
}

func TestStore_Get_MissAfterExpiry(t *testing.T) {
	s, err := New(DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()

	require.NoError(t, s.Put(files, params, sampleResult(), -time.Second))

	_, ok := s.Get(files, params)
	assert.False(t, ok)
}

func TestStore_Get_MissOnFingerprintDrift(t *testing.T) {
	s, err := New(DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()
	require.NoError(t, s.Put(files, params, sampleResult(), time.Hour))

	drifted := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 200, modified)}
	_, ok := s.Get(drifted, params)
	assert.False(t, ok)
}

func TestStore_Invalidate_RemovesEntriesReferencingPath(t *testing.T) {
	s, err := New(DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()
	require.NoError(t, s.Put(files, params, sampleResult(), time.Hour))

	require.NoError(t, s.Invalidate("/tmp/a.tmp"))

	_, ok := s.Get(files, params)
	assert.False(t, ok)
}

func TestStore_Clear_EmptiesStore(t *testing.T) {
	s, err := New(DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()
	require.NoError(t, s.Put(files, params, sampleResult(), time.Hour))

	require.NoError(t, s.Clear())

	_, ok := s.Get(files, params)
	assert.False(t, ok)
	assert.Equal(t, 0, s.StatsSnapshot().EntryCount)
}

func TestStore_PersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)

	modified := time.Unix(1700000000, 0)
	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", 100, modified)}
	params := testParams()

	s1, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s1.Put(files, params, sampleResult(), time.Hour))

	s2, err := New(cfg)
	require.NoError(t, err)
	got, ok := s2.Get(files, params)
	require.True(t, ok)
	assert.Len(t, got.Recommendations, 1)
}

func TestCleanup_EvictsOverEntryCap(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.MaxEntries = 2
	cfg.CleanupInterval = 0
	s, err := New(cfg)
	require.NoError(t, err)

	modified := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		path := filepath.Join("/tmp", filepath.Base(t.TempDir())+string(rune('a'+i))+".tmp")
		files := []filemeta.FileMeta{mustFile(t, path, 10, modified)}
		params := filemeta.BatchKeyParams{Provider: "openai", Model: "gpt-4"}
		require.NoError(t, s.Put(files, params, sampleResult(), time.Hour))
		time.Sleep(time.Millisecond)
	}

	require.NoError(t, s.Cleanup(true))
	assert.LessOrEqual(t, s.StatsSnapshot().EntryCount, cfg.MaxEntries)
}
