// Package apply turns an AnalysisResult into a persisted, resumable
// execution: a Plan records which recommendations are pending, State
// tracks which ones have actually been carried out on disk. Both are
// written atomically and re-loaded on the next invocation, so a repeated
// apply run resumes instead of redoing work.
package apply

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

// PlanVersion is the on-disk schema version for Plan files.
const PlanVersion = "1.0"

// Item pairs a Recommendation with the file size observed at analysis time,
// since Recommendation itself carries no size (it is not part of the AI's
// closed response schema; size lives on the FileMeta the caller scanned).
type Item struct {
	cleanup.Recommendation `yaml:",inline"`
	SizeBytes              int64 `yaml:"size_bytes"`
}

// Plan is the durable record of an AnalysisResult's recommendations,
// awaiting a human or automated decision to apply them.
type Plan struct {
	Version     string       `yaml:"version"`
	GeneratedAt time.Time    `yaml:"generated_at"`
	Mode        cleanup.Mode `yaml:"mode"`
	Items       []Item       `yaml:"items"`
}

// NewPlan builds a Plan from a completed AnalysisResult and the sizes of the
// files that produced it, looked up by each recommendation's path (a path
// missing from sizes gets size 0).
func NewPlan(result cleanup.AnalysisResult, sizes map[string]int64) *Plan {
	items := make([]Item, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		items = append(items, Item{Recommendation: rec, SizeBytes: sizes[rec.Path]})
	}
	return &Plan{
		Version:     PlanVersion,
		GeneratedAt: time.Now(),
		Mode:        result.Mode,
		Items:       items,
	}
}

// DeleteCandidates returns the subset of the plan's items whose action is
// to delete. Every other action (keep, review) requires no apply step.
func (p *Plan) DeleteCandidates() []Item {
	var out []Item
	for _, item := range p.Items {
		if item.Action == cleanup.ActionDelete {
			out = append(out, item)
		}
	}
	return out
}

// SavePlan writes a Plan to path using an atomic rename, so a crash mid-write
// never leaves a corrupt or half-written plan file behind.
func SavePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write plan file %s: %w", path, err)
	}
	return nil
}

// LoadPlan reads a Plan previously written by SavePlan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}
	return &plan, nil
}
