// Package llm defines the transport contract between the batching layer
// and an LLM provider, plus the shared privacy-boundary validation and
// error-classification logic every provider implementation must apply.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
)

// Params are the model parameters that shape a sub-batch request.
type Params struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultParams returns the documented default model parameters.
func DefaultParams() Params {
	return Params{
		Temperature: 0.1,
		MaxTokens:   4096,
		Timeout:     30 * time.Second,
	}
}

// BatchRequest is one sub-batch dispatched to a provider. Files must
// already have passed ValidateBatch before a Transport implementation
// builds a request body from them.
type BatchRequest struct {
	Files  []filemeta.FileMeta
	Params Params
}

// BatchResponse is a provider's parsed reply: one Recommendation per input
// file, reordered to match the input path order.
type BatchResponse struct {
	Recommendations []cleanup.Recommendation
	TokensUsed      int
}

// Transport is the narrow capability interface the batching layer calls
// through. Claude and OpenAI implementations live in the llm/claude and
// llm/openai subpackages.
type Transport interface {
	// Analyze sends one sub-batch and returns one Recommendation per input
	// file, in input order. Implementations MUST assert that the provider
	// returned exactly len(req.Files) entries and MUST reorder them to
	// match req.Files' path order; any deviation is a failed sub-batch.
	Analyze(ctx context.Context, req BatchRequest) (BatchResponse, error)
}

// maxPathBytes bounds the serialized length of a path or parent directory
// accepted into a batch request. This is the last line of defense against
// content leakage: it is deliberately the same 1 KiB ceiling FileMeta
// itself enforces (see pkg/filemeta), checked again here at the transport
// boundary.
const maxPathBytes = 1024

// ValidateBatch enforces the privacy invariant: every FileMeta must fit the
// closed FileMeta schema (enforced by filemeta.FileMeta.Validate, which
// every record in files has already passed by construction) and no
// path/parent may exceed 1 KiB. ValidateBatch is the transport boundary's
// last line of defense against ever transmitting more than metadata.
func ValidateBatch(files []filemeta.FileMeta) error {
	if len(files) == 0 {
		return fmt.Errorf("llm: batch must not be empty")
	}
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("llm: rejecting batch, invalid file metadata: %w", err)
		}
		if len(f.Path) > maxPathBytes || len(f.ParentDir) > maxPathBytes {
			return fmt.Errorf("llm: rejecting batch, path or parent for %q exceeds %d bytes", f.Path, maxPathBytes)
		}
	}
	return nil
}

// ReorderByPath reorders recs (keyed by path) to match the path order of
// files, returning an error if the sets of paths do not match exactly —
// i.e. the provider returned extras, omissions, or unrecognized paths.
func ReorderByPath(files []filemeta.FileMeta, recs []cleanup.Recommendation) ([]cleanup.Recommendation, error) {
	if len(recs) != len(files) {
		return nil, fmt.Errorf("llm: expected %d recommendations, got %d", len(files), len(recs))
	}

	byPath := make(map[string]cleanup.Recommendation, len(recs))
	for _, r := range recs {
		byPath[r.Path] = r
	}

	ordered := make([]cleanup.Recommendation, len(files))
	for i, f := range files {
		r, ok := byPath[f.Path]
		if !ok {
			return nil, fmt.Errorf("llm: no recommendation returned for %q", f.Path)
		}
		ordered[i] = r
	}
	return ordered, nil
}
