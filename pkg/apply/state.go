package apply

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/natefinch/atomic"
)

// StateVersion is the on-disk schema version for State files.
const StateVersion = "1.0"

// ItemResult records what happened when a single plan item was applied.
type ItemResult struct {
	Path      string    `yaml:"path"`
	Freed     int64     `yaml:"freed_bytes"`
	AppliedAt time.Time `yaml:"applied_at"`
	Error     string    `yaml:"error,omitempty"`
}

// State is the durable record of which plan items have already been
// applied, letting a repeated `apply` invocation resume instead of
// re-deleting (or re-erroring on) files it already handled.
type State struct {
	mu sync.Mutex

	Version   string                `yaml:"version"`
	PlanPath  string                `yaml:"plan_path"`
	UpdatedAt time.Time             `yaml:"updated_at"`
	Done      map[string]ItemResult `yaml:"done"`
}

// NewState returns an empty State bound to planPath.
func NewState(planPath string) *State {
	return &State{Version: StateVersion, PlanPath: planPath, Done: map[string]ItemResult{}}
}

// LoadState reads a State file, returning a fresh State if none exists yet.
func LoadState(path, planPath string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(planPath), nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	if state.Done == nil {
		state.Done = map[string]ItemResult{}
	}
	return &state, nil
}

// Save persists the state via an atomic rename.
func (s *State) Save(path string) error {
	s.mu.Lock()
	s.UpdatedAt = time.Now()
	data, err := yaml.Marshal(s)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// Record marks path as applied (or failed, if applyErr is non-nil).
func (s *State) Record(path string, freed int64, applyErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := ItemResult{Path: path, Freed: freed, AppliedAt: time.Now()}
	if applyErr != nil {
		res.Error = applyErr.Error()
	}
	s.Done[path] = res
}

// AlreadyApplied reports whether path has a recorded, error-free result.
func (s *State) AlreadyApplied(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.Done[path]
	return ok && res.Error == ""
}

// TotalFreed sums bytes freed across every successful item.
func (s *State) TotalFreed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, res := range s.Done {
		if res.Error == "" {
			total += res.Freed
		}
	}
	return total
}
