// Package web exposes a local, read-only view of a running pipeline: a
// JSON status endpoint and a websocket that pushes a fresh diag.Report
// every few seconds. It is a single-process convenience for watching a
// long analysis run, not a coordination layer: one server, one client,
// no cross-process state.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/diag"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/orchestrator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // local-only dev convenience
}

// Server serves status snapshots of a single Orchestrator.
type Server struct {
	orch     *orchestrator.Orchestrator
	limits   diag.LimitsView
	interval time.Duration

	mu  sync.Mutex
	srv *http.Server
}

// New returns a Server reporting on orch, pushing a snapshot over any open
// websocket connection every interval (default 3s if zero).
func New(orch *orchestrator.Orchestrator, limits diag.LimitsView, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Server{orch: orch, limits: limits, interval: interval}
}

// Start binds addr and serves until ctx is canceled. It blocks.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	s.mu.Lock()
	s.srv = &http.Server{Handler: mux}
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report := diag.Snapshot(s.orch)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		log.Printf("web: failed to encode status: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			report := diag.Snapshot(s.orch)
			if err := conn.WriteJSON(report); err != nil {
				return
			}
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html><head><title>Disk Cleanup Status</title></head>
<body>
<h1>Disk Cleanup Status</h1>
<pre id="status">connecting...</pre>
<script>
  const ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = (ev) => { document.getElementById("status").textContent = ev.data; };
</script>
</body></html>
`
