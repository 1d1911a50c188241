package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
)

func mustFile(t *testing.T, path, parent string, size int64) filemeta.FileMeta {
	t.Helper()
	name := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			name = path[i+1:]
			break
		}
	}
	fm, err := filemeta.New(path, name, size, extOf(name), time.Unix(0, 0), time.Unix(0, 0), time.Unix(0, 0), parent, false, false)
	require.NoError(t, err)
	return fm
}

func extOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}

func TestEngine_Analyze_CategoryPrecedence(t *testing.T) {
	e := New()

	cases := []struct {
		name     string
		path     string
		parent   string
		size     int64
		wantCat  string
		wantAct  cleanup.Action
		wantRisk cleanup.RiskLevel
	}{
		{"temp suffix", "/home/u/file.tmp", "/home/u", 10, "temporary", cleanup.ActionDelete, cleanup.RiskLow},
		{"ds store", "/home/u/.DS_Store", "/home/u", 10, "temporary", cleanup.ActionDelete, cleanup.RiskLow},
		{"temp parent dir", "/home/u/cache/x.dat", "/home/u/cache", 10, "temporary", cleanup.ActionDelete, cleanup.RiskLow},
		{"backup", "/home/u/report.bak", "/home/u", 10, "backup", cleanup.ActionReview, cleanup.RiskMedium},
		{"large media", "/home/u/movie.mp4", "/home/u", 200 * 1024 * 1024, "large_media", cleanup.ActionReview, cleanup.RiskMedium},
		{"small media not flagged", "/home/u/clip.mp4", "/home/u", 10, "unknown", cleanup.ActionKeep, cleanup.RiskMedium},
		{"system dll", "/home/u/lib.dll", "/home/u", 10, "system", cleanup.ActionKeep, cleanup.RiskLow},
		{"system parent", "/c/Windows/System32/x.bin", "/c/Windows/System32", 10, "system", cleanup.ActionKeep, cleanup.RiskLow},
		{"dev artifact", "/home/u/Main.class", "/home/u", 10, "development", cleanup.ActionReview, cleanup.RiskMedium},
		{"unknown default", "/home/u/notes.txt", "/home/u", 10, "unknown", cleanup.ActionKeep, cleanup.RiskMedium},
		{"case insensitive", "/home/u/FILE.TMP", "/home/u", 10, "temporary", cleanup.ActionDelete, cleanup.RiskLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := mustFile(t, tc.path, tc.parent, tc.size)
			recs := e.Analyze([]filemeta.FileMeta{f})
			require.Len(t, recs, 1)
			assert.Equal(t, tc.wantCat, recs[0].Category)
			assert.Equal(t, tc.wantAct, recs[0].Action)
			assert.Equal(t, tc.wantRisk, recs[0].Risk)
			assert.Equal(t, tc.path, recs[0].Path)
		})
	}
}

func TestEngine_Analyze_Purity(t *testing.T) {
	e := New()
	files := []filemeta.FileMeta{
		mustFile(t, "/a/one.tmp", "/a", 1),
		mustFile(t, "/a/two.bak", "/a", 2),
		mustFile(t, "/a/three.txt", "/a", 3),
	}

	first := e.Analyze(files)
	second := e.Analyze(files)
	assert.Equal(t, first, second)
}

func TestEngine_Analyze_PreservesOrderAndCount(t *testing.T) {
	e := New()
	files := []filemeta.FileMeta{
		mustFile(t, "/a/one.tmp", "/a", 1),
		mustFile(t, "/a/two.bak", "/a", 2),
		mustFile(t, "/a/three.txt", "/a", 3),
	}
	recs := e.Analyze(files)
	require.Len(t, recs, len(files))
	for i, f := range files {
		assert.Equal(t, f.Path, recs[i].Path)
	}
}

func TestEngine_Analyze_Empty(t *testing.T) {
	e := New()
	recs := e.Analyze(nil)
	assert.Empty(t, recs)
}
