// Package server exposes vision boards over HTTP.
//
// Boards live in a [session.Store] for the length of a session. Clients
// create a board from URLs, stream pointer events at it and download
// exports:
//
//	GET    /healthz
//	GET    /api/v1/layout?count=&width=&height=
//	POST   /api/v1/boards                      {"urls": [...]}
//	GET    /api/v1/boards/{id}
//	POST   /api/v1/boards/{id}/events          {"origin": {...}, "events": [...]}
//	GET    /api/v1/boards/{id}/export/{format}
//	DELETE /api/v1/boards/{id}
//
// Event application is serialized per board. Exports are serialized per
// board by the export pipeline; a second export while one runs gets 409.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/pipeline"
	"github.com/matzehuels/visionboard/pkg/session"
)

// ShutdownTimeout bounds graceful shutdown in [Server.Run].
const ShutdownTimeout = 5 * time.Second

// Server serves the board API.
type Server struct {
	exporter *export.Pipeline
	runner   *pipeline.Runner
	store    session.Store
	ttl      time.Duration
	logger   *log.Logger
	locks    boardLocks
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the session store. The default is a [session.MemoryStore].
func WithStore(s session.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithSessionTTL sets how long an untouched board lives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(srv *Server) {
		if ttl > 0 {
			srv.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// New returns a server exporting through p.
func New(p *export.Pipeline, opts ...Option) *Server {
	s := &Server{
		exporter: p,
		ttl:      session.DefaultTTL,
		locks:    boardLocks{m: make(map[string]*boardLock)},
	}
	for _, o := range opts {
		o(s)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.runner = pipeline.NewRunner(nil, nil, nil, s.logger)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Post("/boards", s.handleCreate)
		r.Route("/boards/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/events", s.handleEvents)
			r.Get("/export/{format}", s.handleExport)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go s.cleanupLoop(ctx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cleanupLoop evicts expired sessions until ctx is done.
func (s *Server) cleanupLoop(ctx context.Context) {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup", "error", err)
			}
		}
	}
}

// boardLocks serializes event handling per board id. Entries are
// reference counted and removed when the last holder unlocks, so ids that
// 404 or expire leave nothing behind.
type boardLocks struct {
	mu sync.Mutex
	m  map[string]*boardLock
}

type boardLock struct {
	mu   sync.Mutex
	refs int
}

func (l *boardLocks) lock(id string) func() {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &boardLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		if e.refs--; e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

func (l *boardLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
