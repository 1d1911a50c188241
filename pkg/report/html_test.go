package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

func TestGenerateHTML_WritesReadableReport(t *testing.T) {
	result := cleanup.AnalysisResult{
		Mode: cleanup.ModeAI,
		Recommendations: []cleanup.Recommendation{
			{Path: "/tmp/a.log", Action: cleanup.ActionDelete, Risk: cleanup.RiskLow, Category: "log", Confidence: 0.9, Rationale: "stale log"},
		},
		Summary: cleanup.Summary{
			TotalFiles:        1,
			AverageConfidence: 0.9,
			CountsByAction:    map[cleanup.Action]int{cleanup.ActionDelete: 1},
		},
	}

	outPath := filepath.Join(t.TempDir(), "report.html")
	written, err := GenerateHTML(result, 2048, outPath)
	require.NoError(t, err)
	assert.Equal(t, outPath, written)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "Disk Cleanup Report")
	assert.Contains(t, html, "a.log")
	assert.Contains(t, html, "2.0 KiB")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.0 KiB", humanBytes(1024))
	assert.Equal(t, "1.0 MiB", humanBytes(1024*1024))
}
