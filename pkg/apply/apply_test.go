package apply

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

func writeTempFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestPlan_DeleteCandidates_FiltersNonDeleteActions(t *testing.T) {
	result := cleanup.AnalysisResult{
		Recommendations: []cleanup.Recommendation{
			{Path: "a.log", Action: cleanup.ActionDelete},
			{Path: "b.conf", Action: cleanup.ActionKeep},
			{Path: "c.tmp", Action: cleanup.ActionDelete},
		},
	}
	plan := NewPlan(result, map[string]int64{"a.log": 10, "c.tmp": 20})
	candidates := plan.DeleteCandidates()
	require.Len(t, candidates, 2)
	assert.Equal(t, "a.log", candidates[0].Path)
	assert.Equal(t, int64(10), candidates[0].SizeBytes)
}

func TestSavePlanLoadPlan_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	result := cleanup.AnalysisResult{
		Mode:            cleanup.ModeAI,
		Recommendations: []cleanup.Recommendation{{Path: "a.log", Action: cleanup.ActionDelete, Confidence: 0.9}},
	}
	plan := NewPlan(result, map[string]int64{"a.log": 100})
	require.NoError(t, SavePlan(plan, planPath))

	loaded, err := LoadPlan(planPath)
	require.NoError(t, err)
	assert.Equal(t, cleanup.ModeAI, loaded.Mode)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, int64(100), loaded.Items[0].SizeBytes)
}

func TestExecutor_Apply_DeletesWithinRootAndRecordsState(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "junk.log", 50)

	result := cleanup.AnalysisResult{
		Recommendations: []cleanup.Recommendation{{Path: path, Action: cleanup.ActionDelete}},
	}
	plan := NewPlan(result, map[string]int64{path: 50})
	state := NewState("plan.yaml")

	exec := New(Config{Root: dir, Parallelism: 2})
	outcome, err := exec.Apply(context.Background(), plan, state)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Applied)
	assert.Equal(t, int64(50), outcome.BytesFreed)
	assert.NoFileExists(t, path)
	assert.True(t, state.AlreadyApplied(path))
}

func TestExecutor_Apply_FailsPathOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	path := writeTempFile(t, outside, "escape.log", 10)

	result := cleanup.AnalysisResult{
		Recommendations: []cleanup.Recommendation{{Path: path, Action: cleanup.ActionDelete}},
	}
	plan := NewPlan(result, map[string]int64{path: 10})
	state := NewState("plan.yaml")

	exec := New(Config{Root: dir})
	outcome, err := exec.Apply(context.Background(), plan, state)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Applied)
	assert.Equal(t, 1, outcome.Failed)
	assert.FileExists(t, path)
}

func TestExecutor_Apply_DryRunLeavesFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "junk.log", 30)

	result := cleanup.AnalysisResult{
		Recommendations: []cleanup.Recommendation{{Path: path, Action: cleanup.ActionDelete}},
	}
	plan := NewPlan(result, map[string]int64{path: 30})
	state := NewState("plan.yaml")

	exec := New(Config{Root: dir, DryRun: true})
	outcome, err := exec.Apply(context.Background(), plan, state)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Skipped)
	assert.FileExists(t, path)
}

func TestExecutor_Apply_ResumeSkipsAlreadyApplied(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "junk.log", 15)

	result := cleanup.AnalysisResult{
		Recommendations: []cleanup.Recommendation{{Path: path, Action: cleanup.ActionDelete}},
	}
	plan := NewPlan(result, map[string]int64{path: 15})
	state := NewState("plan.yaml")
	state.Record(path, 15, nil)

	exec := New(Config{Root: dir})
	outcome, err := exec.Apply(context.Background(), plan, state)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Applied)
	assert.Equal(t, 1, outcome.Skipped)
}
