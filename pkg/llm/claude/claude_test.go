package claude

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/filemeta"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/llm"
)

func mustFile(t *testing.T, path, name string) filemeta.FileMeta {
	t.Helper()
	now := time.Unix(1700000000, 0)
	fm, err := filemeta.New(path, name, 4096, ".bak", now, now, now, "/backups", false, false)
	require.NoError(t, err)
	return fm
}

func newTransportAgainst(t *testing.T, body string) *Transport {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	tr, err := NewWithBaseURL("test-key", srv.URL)
	require.NoError(t, err)
	return tr
}

const stubTextResponse = `{
  "id": "msg_test",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-20250514",
  "content": [{"type": "text", "text": "{\"file_analyses\":[{\"path\":\"/backups/old.bak\",\"action\":\"delete\",\"confidence\":0.8,\"reason\":\"stale backup\",\"category\":\"backup\",\"risk\":\"medium\"}]}"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 80, "output_tokens": 30}
}`

func TestTransport_Analyze_ParsesTextResponse(t *testing.T) {
	tr := newTransportAgainst(t, stubTextResponse)

	files := []filemeta.FileMeta{mustFile(t, "/backups/old.bak", "old.bak")}
	resp, err := tr.Analyze(context.Background(), llm.BatchRequest{Files: files, Params: llm.DefaultParams()})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "/backups/old.bak", resp.Recommendations[0].Path)
	assert.Equal(t, 110, resp.TokensUsed)
}

func TestTransport_Analyze_RejectsEmptyBatch(t *testing.T) {
	tr := newTransportAgainst(t, stubTextResponse)
	_, err := tr.Analyze(context.Background(), llm.BatchRequest{Files: nil, Params: llm.DefaultParams()})
	assert.Error(t, err)
}

func TestNew_RejectsEmptyAPIKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

const stubNoTextResponse = `{
  "id": "msg_test2",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-20250514",
  "content": [],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 10, "output_tokens": 0}
}`

func TestTransport_Analyze_ErrorsWhenNoTextBlock(t *testing.T) {
	tr := newTransportAgainst(t, stubNoTextResponse)
	files := []filemeta.FileMeta{mustFile(t, "/backups/old.bak", "old.bak")}
	_, err := tr.Analyze(context.Background(), llm.BatchRequest{Files: files, Params: llm.DefaultParams()})
	assert.Error(t, err)
}
