package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hart-dev/hart/pkg/dom"
	"github.com/hart-dev/hart/pkg/oplog"
	"github.com/hart-dev/hart/pkg/render"
	"github.com/hart-dev/hart/pkg/telemetry"
)

// Config configures the inspector.
type Config struct {
	// Addr is the listen address for ListenAndServe.
	// Default: "127.0.0.1:7070".
	Addr string

	// Target is the node whose markup is snapshotted after each pass.
	Target dom.Node

	// Gatherer serves /metrics.
	// Default: prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer

	// History is how many pass records /passes keeps.
	// Default: 100.
	History int

	// WriteTimeout bounds each websocket write.
	// Default: time.Second.
	WriteTimeout time.Duration

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Server is the inspector.
type Server struct {
	config   Config
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	snapshot string
	history  []oplog.Record
}

// New creates an inspector.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7070"
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.History <= 0 {
		cfg.History = 100
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		logger:  logger.With("component", "devtools"),
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool
			},
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/snapshot.html", s.handleSnapshot)
	r.Get("/passes", s.handlePasses)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.router = r
	return s
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ObservePass snapshots the target and broadcasts p.
func (s *Server) ObservePass(p *telemetry.Pass) {
	rec := oplog.FromPass(p)

	var html string
	if s.config.Target != nil {
		html = render.InnerHTML(s.config.Target)
	}

	s.mu.Lock()
	s.snapshot = html
	s.history = append(s.history, rec)
	if over := len(s.history) - s.config.History; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
	s.mu.Unlock()

	data, err := oplog.Marshal(rec)
	if err != nil {
		s.logger.Error("encode pass", "seq", rec.Seq, "error", err)
		return
	}
	s.broadcast(data)
}

// Snapshot returns the markup captured after the last pass.
func (s *Server) Snapshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// History returns the retained pass records, oldest first.
func (s *Server) History() []oplog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]oplog.Record(nil), s.history...)
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(s.Snapshot()))
}

func (s *Server) handlePasses(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.History()); err != nil {
		s.logger.Error("encode passes", "error", err)
	}
}

// handleWebSocket registers a client and holds the connection until it
// goes away. Clients never send anything meaningful.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.logger.Debug("inspector client connected", "remote", r.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
	s.logger.Debug("inspector client disconnected", "remote", r.RemoteAddr)
}

// broadcast sends data to every client, dropping the ones that fail.
func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		c.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := c.WriteMessage(websocket.BinaryMessage, data); err != nil {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			c.Close()
		}
	}
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>hart inspector</title>
<style>
body { font-family: monospace; margin: 20px; }
#status { color: #888; }
#tree { border: 1px solid #ccc; padding: 10px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>hart inspector</h1>
<p id="status">connecting</p>
<div id="tree"></div>
<script>
(function() {
    'use strict';

    var passes = 0;
    var status = document.getElementById('status');
    var tree = document.getElementById('tree');

    function refresh() {
        fetch('/snapshot.html', { cache: 'no-store' })
            .then(function(r) { return r.text(); })
            .then(function(html) { tree.textContent = html; });
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');
        ws.binaryType = 'arraybuffer';
        ws.onopen = function() { status.textContent = 'connected'; refresh(); };
        ws.onmessage = function() {
            passes++;
            status.textContent = passes + ' passes';
            refresh();
        };
        ws.onclose = function() {
            status.textContent = 'disconnected, retrying';
            setTimeout(connect, 1000);
        };
    }

    connect();
})();
</script>
</body>
</html>
`
