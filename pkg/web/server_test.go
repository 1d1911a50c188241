package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/config"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/diag"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/orchestrator"
)

func TestServer_StartReturnsNilOnCancel(t *testing.T) {
	cfg := config.LoadOrDefault()
	cfg.Cache.MaxEntries = 10
	orch, err := orchestrator.New(cfg, orchestrator.WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	srv := New(orch, diag.LimitsView{MaxDailyRequests: 100}, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx, "127.0.0.1:0") }()

	// Start binds an ephemeral port asynchronously; give it a moment.
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestServer_HandleStatus_EncodesReport(t *testing.T) {
	cfg := config.LoadOrDefault()
	orch, err := orchestrator.New(cfg, orchestrator.WithCacheDir(t.TempDir()))
	require.NoError(t, err)
	srv := New(orch, diag.LimitsView{}, 0)

	req, err := http.NewRequest(http.MethodGet, "/api/status", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)

	var report diag.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
}
