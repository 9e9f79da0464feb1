package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lingotutor/tools"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the tool registry and transcript sessions to the voice runtime.
type Server struct {
	registry *tools.Registry
	sessions *SessionStore
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	http     *http.Server
}

func NewServer(addr string, registry *tools.Registry, sessions *SessionStore,
	gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		registry: registry,
		sessions: sessions,
		gatherer: gatherer,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /tools", s.listTools)
	mux.HandleFunc("POST /tools/{name}", s.executeTool)

	mux.HandleFunc("POST /sessions", s.openSession)
	mux.HandleFunc("POST /sessions/{id}/items", s.addItem)
	mux.HandleFunc("DELETE /sessions/{id}", s.closeSession)

	return mux
}

// Start serves until ctx is done, then shuts down and flushes open transcripts.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.sessions.CloseAll()
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	s.sessions.CloseAll()
	return err
}
