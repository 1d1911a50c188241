package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
)

// functionName is the tool/function name both provider implementations
// force the model to call.
const functionName = "analyze_files_for_cleanup"

// metadataRecord is the wire shape of a single FileMeta sent to the model.
// It intentionally exposes only the documented, non-content fields.
type metadataRecord struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	SizeBytes  int64  `json:"size_bytes"`
	Ext        string `json:"ext"`
	ModifiedAt string `json:"modified_at"`
	CreatedAt  string `json:"created_at"`
	Hidden     bool   `json:"hidden"`
	System     bool   `json:"system"`
}

func toMetadataRecords(files []filemeta.FileMeta) []metadataRecord {
	out := make([]metadataRecord, len(files))
	for i, f := range files {
		out[i] = metadataRecord{
			Path:       f.Path,
			Name:       f.Name,
			SizeBytes:  f.SizeBytes,
			Ext:        f.Ext,
			ModifiedAt: f.ModifiedAt.UTC().Format("2006-01-02T15:04:05Z"),
			CreatedAt:  f.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Hidden:     f.Hidden,
			System:     f.System,
		}
	}
	return out
}

// BuildPrompt renders the single user-message prompt that both transports
// send (OpenAI alongside its forced tool call, Claude as plain text). It
// never includes file contents — only the
// metadata fields documented in the closed FileMeta schema.
func BuildPrompt(files []filemeta.FileMeta) (string, error) {
	records := toMetadataRecords(files)
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("llm: failed to marshal metadata batch: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a disk-cleanup assistant. You will be given a JSON array of file metadata records (no file contents are ever included). For each file, decide whether it should be deleted, kept, or reviewed.\n\n")
	b.WriteString("FILE METADATA:\n")
	b.Write(payload)
	b.WriteString("\n\nTASK:\nReturn a JSON object of the exact shape:\n")
	b.WriteString(`{"file_analyses": [{"path": "...", "action": "delete|keep|review", "confidence": 0.0, "reason": "...", "category": "...", "risk": "low|medium|high|critical"}]}`)
	b.WriteString("\n\nIMPORTANT:\n")
	b.WriteString("- Return exactly one entry per input file, identified by its \"path\".\n")
	b.WriteString("- Return ONLY the JSON object, with no markdown formatting or prose.\n")
	return b.String(), nil
}

// FunctionSchema returns the JSON schema for the forced tool/function call,
// matching the wire shape both BuildPrompt and ParseFileAnalyses expect.
func FunctionSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "file_analyses": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "path": {"type": "string"},
          "action": {"type": "string", "enum": ["delete", "keep", "review"]},
          "confidence": {"type": "number"},
          "reason": {"type": "string"},
          "category": {"type": "string"},
          "risk": {"type": "string", "enum": ["low", "medium", "high", "critical"]}
        },
        "required": ["path", "action", "confidence", "reason", "category", "risk"]
      }
    }
  },
  "required": ["file_analyses"]
}`)
}

// FunctionName returns the forced tool/function name.
func FunctionName() string {
	return functionName
}
