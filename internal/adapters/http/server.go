package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewHandler builds the status router.
func NewHandler(tracker *Tracker, metrics *Metrics) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/progress", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tracker.Snapshot()); err != nil {
			http.Error(w, "failed to encode progress", http.StatusInternalServerError)
		}
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// StatusServer runs the status endpoint for the duration of a run.
type StatusServer struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewStatusServer creates a server bound to addr.
func NewStatusServer(addr string, tracker *Tracker, metrics *Metrics, logger *slog.Logger) *StatusServer {
	return &StatusServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(tracker, metrics),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving in the background. Listen errors after startup are
// logged, not fatal: losing the status endpoint must not kill a
// provisioning run in progress.
func (s *StatusServer) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("status server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("status server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the server gracefully.
func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
