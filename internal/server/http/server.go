package httpserver

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/engine"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

// Server exposes the engine over a small JSON HTTP API.
//
// The engine itself performs no locking, so the server serializes every
// engine call behind a mutex.
type Server struct {
	mu     sync.Mutex
	eng    *engine.Engine
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

// New builds a Server around an opened engine.
func New(eng *engine.Engine, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	mux := http.NewServeMux()
	s := &Server{
		eng:    eng,
		srv:    &http.Server{Handler: mux},
		logger: logger.WithComponent("http"),
	}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/fs", s.handleFS)
	mux.HandleFunc("/v1/records", s.handleRecords)
	mux.HandleFunc("/v1/records/evict", s.handleEvict)
	mux.HandleFunc("/v1/cleanup", s.handleCleanup)
	mux.HandleFunc("/v1/format", s.handleFormat)
	return s
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http server listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }
