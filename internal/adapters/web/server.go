package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/search"
	"github.com/corey/acnh/internal/domain/selection"
)

// Backend is what the server needs from the application.
type Backend interface {
	Catalog() *catalog.Catalog
	Search(query string, filters catalog.CategorySet) []search.Result
	Snapshot() selection.State
	Dispatch(ctx context.Context, a selection.Action) (selection.State, error)
}

// Server serves the JSON API over HTTP.
type Server struct {
	backend  Backend
	log      *zap.Logger
	gatherer prometheus.Gatherer
	// ErrorStatus maps dispatch errors to HTTP status codes. Unmapped
	// errors are 500.
	errorStatus func(error) int

	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	stopOnce sync.Once

	portFilePath string // .acnh/run/http.addr
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithErrorStatus adds a mapping from dispatch errors to status codes.
func WithErrorStatus(fn func(error) int) Option {
	return func(s *Server) { s.errorStatus = fn }
}

// WithPortFile writes the bound address to path on Start and removes it on Stop.
func WithPortFile(path string) Option {
	return func(s *Server) { s.portFilePath = path }
}

// NewServer creates an HTTP server for backend.
func NewServer(backend Backend, opts ...Option) *Server {
	s := &Server{
		backend: backend,
		log:     zap.NewNop(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router. Start uses it; tests can mount it directly.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Logger(s.log))

	r.Handle("/*", http.FileServer(http.FS(staticRoot())))
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/categories", s.handleCategories)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/state", s.handleState)

	r.Route("/api/wishlist", func(r chi.Router) {
		r.Delete("/", s.dispatchHandler(func(string) selection.Action { return selection.ResetWishlist{} }))
		r.Post("/{id}", s.dispatchHandler(func(id string) selection.Action { return selection.AddToWishlist{ID: catalog.ID(id)} }))
		r.Delete("/{id}", s.dispatchHandler(func(id string) selection.Action { return selection.RemoveFromWishlist{ID: catalog.ID(id)} }))
	})
	r.Route("/api/catalog", func(r chi.Router) {
		r.Delete("/", s.dispatchHandler(func(string) selection.Action { return selection.ResetCatalog{} }))
		r.Post("/{id}", s.dispatchHandler(func(id string) selection.Action { return selection.AddToCatalog{ID: catalog.ID(id)} }))
		r.Delete("/{id}", s.dispatchHandler(func(id string) selection.Action { return selection.RemoveFromCatalog{ID: catalog.ID(id)} }))
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func staticRoot() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// Start begins listening on addr. Writes the bound address to the port file.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(s.Addr()), 0644); err != nil {
			s.log.Warn("write port file", zap.String("path", s.portFilePath), zap.Error(err))
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http serve", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}
