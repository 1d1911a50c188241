package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

func TestFormatCost(t *testing.T) {
	tests := []struct {
		name string
		cost float64
	}{
		{"very low cost", 0.001},
		{"low cost", 0.05},
		{"medium cost", 0.50},
		{"high cost", 1.50},
		{"zero cost", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatCost(tt.cost)
			assert.Contains(t, result, "$")
		})
	}
}

func TestRepeat(t *testing.T) {
	tests := []struct {
		name  string
		str   string
		count int
		want  string
	}{
		{"empty", "", 5, ""},
		{"single char", "=", 3, "==="},
		{"multiple chars", "ab", 2, "abab"},
		{"zero count", "x", 0, ""},
		{"negative count", "x", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repeat(tt.str, tt.count)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewProgressBar(t *testing.T) {
	bar := NewProgressBar(100, "Testing")
	assert.NotNil(t, bar)
}

func TestPrintRecommendationsTable(t *testing.T) {
	recs := []cleanup.Recommendation{
		{Path: "a.tmp", Category: "temporary", Action: cleanup.ActionDelete, Confidence: 0.9, Risk: cleanup.RiskLow},
		{Path: "b.bak", Category: "backup", Action: cleanup.ActionReview, Confidence: 0.7, Risk: cleanup.RiskMedium},
		{Path: "c.dll", Category: "system", Action: cleanup.ActionKeep, Confidence: 0.95, Risk: cleanup.RiskLow},
	}

	// Should not panic, with or without rows.
	PrintRecommendationsTable(recs)
	PrintRecommendationsTable(nil)
}

func TestStripANSI(t *testing.T) {
	colored := Error("delete")
	assert.Equal(t, "delete", stripANSI(colored))
	assert.Equal(t, "plain", stripANSI("plain"))
}

func TestColorFunctions(t *testing.T) {
	assert.NotEmpty(t, Success("test"))
	assert.NotEmpty(t, Error("test"))
	assert.NotEmpty(t, Warning("test"))
	assert.NotEmpty(t, Info("test"))
	assert.NotEmpty(t, Bold("test"))
	assert.NotEmpty(t, Dim("test"))
}
