package openai

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
	fm, err := filemeta.New(path, name, 2048, ".tmp", now, now, now, "/tmp", false, false)
	require.NoError(t, err)
	return fm
}

func newStubServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

const stubToolCallResponse = `{
  "id": "chatcmpl-test",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4-turbo-preview",
  "choices": [{
    "index": 0,
    "message": {
      "role": "assistant",
      "content": null,
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {
          "name": "analyze_files_for_cleanup",
          "arguments": "{\"file_analyses\":[{\"path\":\"/tmp/a.tmp\",\"action\":\"delete\",\"confidence\":0.9,\"reason\":\"stale temp file\",\"category\":\"temporary\",\"risk\":\"low\"}]}"
        }
      }]
    },
    "finish_reason": "tool_calls"
  }],
  "usage": {"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120}
}`

func TestTransport_Analyze_ParsesToolCall(t *testing.T) {
	srv := newStubServer(t, stubToolCallResponse)
	defer srv.Close()

	tr, err := New("test-key", srv.URL+"/v1")
	require.NoError(t, err)

	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", "a.tmp")}
	resp, err := tr.Analyze(context.Background(), llm.BatchRequest{Files: files, Params: llm.DefaultParams()})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "/tmp/a.tmp", resp.Recommendations[0].Path)
	assert.Equal(t, 120, resp.TokensUsed)
}

func TestTransport_Analyze_RejectsEmptyBatch(t *testing.T) {
	tr, err := New("test-key", "")
	require.NoError(t, err)
	_, err = tr.Analyze(context.Background(), llm.BatchRequest{Files: nil, Params: llm.DefaultParams()})
	assert.Error(t, err)
}

func TestNew_RejectsEmptyAPIKey(t *testing.T) {
	_, err := New("", "")
	assert.Error(t, err)
}

const stubNoToolCallResponse = `{
  "id": "chatcmpl-test2",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4-turbo-preview",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "I cannot help with that."}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 50, "completion_tokens": 10, "total_tokens": 60}
}`

func TestTransport_Analyze_ErrorsWhenModelSkipsToolCall(t *testing.T) {
	srv := newStubServer(t, stubNoToolCallResponse)
	defer srv.Close()

	tr, err := New("test-key", srv.URL+"/v1")
	require.NoError(t, err)

	files := []filemeta.FileMeta{mustFile(t, "/tmp/a.tmp", "a.tmp")}
	_, err = tr.Analyze(context.Background(), llm.BatchRequest{Files: files, Params: llm.DefaultParams()})
	assert.Error(t, err)
}
