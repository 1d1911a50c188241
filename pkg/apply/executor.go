package apply

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config controls how a Plan's delete candidates are carried out: a bounded
// pool of workers consumes candidates concurrently and reports each outcome
// over a shared result channel.
type Config struct {
	// Root bounds every delete: a resolved path outside Root is refused.
	Root string
	// Parallelism is the number of concurrent delete workers. Default 4.
	Parallelism int
	// Trash, when non-empty, makes Apply move files into this directory
	// instead of permanently removing them.
	Trash string
	// DryRun reports what would happen without touching the filesystem.
	DryRun bool
}

// Executor applies a Plan's delete candidates against the filesystem,
// recording outcomes in a State file so a repeated run resumes rather than
// re-processing already-applied items.
type Executor struct {
	cfg Config
}

// New returns an Executor, defaulting Parallelism to 4 when unset.
func New(cfg Config) *Executor {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	return &Executor{cfg: cfg}
}

// Outcome summarizes one Apply invocation.
type Outcome struct {
	Applied    int
	Skipped    int
	Failed     int
	BytesFreed int64
}

// Apply runs the plan's delete candidates through a bounded worker pool,
// skipping anything State already recorded as successfully applied.
func (e *Executor) Apply(ctx context.Context, plan *Plan, state *State) (Outcome, error) {
	var out Outcome
	var candidates []Item
	for _, item := range plan.DeleteCandidates() {
		if state.AlreadyApplied(item.Path) {
			out.Skipped++
			continue
		}
		candidates = append(candidates, item)
	}

	work := make(chan int)
	results := make(chan itemOutcome)

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Parallelism; i++ {
		wg.Add(1)
		go e.worker(ctx, candidates, work, results, &wg)
	}

	go func() {
		defer close(work)
		for i := range candidates {
			select {
			case work <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		switch {
		case res.skipped:
			out.Skipped++
		case res.err != nil:
			out.Failed++
			state.Record(res.path, 0, res.err)
		default:
			out.Applied++
			out.BytesFreed += res.freed
			state.Record(res.path, res.freed, nil)
		}
	}
	return out, nil
}

type itemOutcome struct {
	path    string
	freed   int64
	skipped bool
	err     error
}

func (e *Executor) worker(ctx context.Context, items []Item, work <-chan int, results chan<- itemOutcome, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case i, ok := <-work:
			if !ok {
				return
			}
			results <- e.applyOne(items[i])
		case <-ctx.Done():
			return
		}
	}
}

func (e *Executor) applyOne(item Item) itemOutcome {
	path := item.Path
	resolved, err := boundedPath(e.cfg.Root, path)
	if err != nil {
		return itemOutcome{path: path, err: err}
	}

	if e.cfg.DryRun {
		return itemOutcome{path: path, freed: item.SizeBytes, skipped: true}
	}

	if e.cfg.Trash != "" {
		if err := os.MkdirAll(e.cfg.Trash, 0o755); err != nil {
			return itemOutcome{path: path, err: fmt.Errorf("failed to create trash dir: %w", err)}
		}
		dest := filepath.Join(e.cfg.Trash, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(resolved)))
		if err := os.Rename(resolved, dest); err != nil {
			return itemOutcome{path: path, err: fmt.Errorf("failed to move to trash: %w", err)}
		}
		return itemOutcome{path: path, freed: item.SizeBytes}
	}

	if err := os.Remove(resolved); err != nil {
		return itemOutcome{path: path, err: fmt.Errorf("failed to delete: %w", err)}
	}
	return itemOutcome{path: path, freed: item.SizeBytes}
}

// boundedPath resolves path to an absolute form and refuses it if it falls
// outside root, so a delete can never escape the directory it was scoped to.
func boundedPath(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("refusing to apply outside root: %s is not under %s", absPath, absRoot)
	}
	return absPath, nil
}
