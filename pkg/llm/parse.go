package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

// fileAnalysis is the wire shape of one entry in a provider's
// "file_analyses" response, mirroring FunctionSchema.
type fileAnalysis struct {
	Path       string  `json:"path"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Category   string  `json:"category"`
	Risk       string  `json:"risk"`
}

type analyzeFilesResponse struct {
	FileAnalyses []fileAnalysis `json:"file_analyses"`
}

// codeFenceRE strips a ```json ... ``` or ``` ... ``` wrapper, the
// markdown-fencing models occasionally add even when explicitly told not
// to.
var codeFenceRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON isolates a JSON object from arbitrary model output: it
// unwraps a markdown code fence if present, then falls back to the
// substring between the first '{' and the last '}', tolerating models
// that ignore "return only JSON" instructions.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if m := codeFenceRE.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("llm: no JSON object found in model output")
	}
	return text[start : end+1], nil
}

// ParseFileAnalyses parses a provider's raw JSON (or fenced-markdown JSON)
// response into Recommendations, in whatever order the provider returned
// them — callers MUST still pass the result through ReorderByPath.
func ParseFileAnalyses(raw string) ([]cleanup.Recommendation, error) {
	jsonText, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed analyzeFilesResponse
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("llm: failed to parse model response: %w", err)
	}

	recs := make([]cleanup.Recommendation, len(parsed.FileAnalyses))
	for i, fa := range parsed.FileAnalyses {
		recs[i] = cleanup.Recommendation{
			Path:       fa.Path,
			Category:   fa.Category,
			Action:     cleanup.Action(strings.ToLower(fa.Action)),
			Confidence: fa.Confidence,
			Rationale:  fa.Reason,
			Risk:       cleanup.RiskLevel(strings.ToLower(fa.Risk)),
		}
	}
	return recs, nil
}
