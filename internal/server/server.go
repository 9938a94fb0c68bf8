package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/tasks"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, device identification and request ids.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own a fixed set of routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the method-qualified patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Deps are the collaborators of a [Server]. API, Engine and State are required.
type Deps struct {
	API     *services.APIService
	Engine  *tasks.ContentEngine
	State   session.Backend
	Devices DeviceRegistry
	Metrics *Metrics
	Logger  *log.Logger
}

// Server is the web surface: proxy, generation and per-device routes behind one router.
type Server struct {
	router  *BasicRouter
	metrics *Metrics
	logger  *log.Logger
}

// New wires every handler onto a fresh router.
func New(deps Deps) (*Server, error) {
	switch {
	case deps.API == nil:
		return nil, fmt.Errorf("%w: backend api is required", shared.ErrMissingArgument)
	case deps.Engine == nil:
		return nil, fmt.Errorf("%w: content engine is required", shared.ErrMissingArgument)
	case deps.State == nil:
		return nil, fmt.Errorf("%w: state backend is required", shared.ErrMissingArgument)
	}

	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "server")

	m := deps.Metrics
	if m == nil {
		m = MustNewMetrics(nil)
	}
	deps.Engine.WithObserver(m)

	r := NewBasicRouter()
	r.Use(RequestIDMiddleware(), LoggingMiddleware(logger, m))
	r.Handler(healthHandler{})
	r.Handle(http.MethodGet, "/metrics", m.Handler())

	NewProxyHandler(deps.API, m, logger).Register(r)
	NewAIHandler(deps.Engine.Generator(), m, logger).Register(r)

	r.Use(DeviceMiddleware(deps.Devices, logger))
	NewAppHandler(deps.State, deps.Engine, m, logger).Register(r)

	return &Server{router: r, metrics: m, logger: logger}, nil
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics are the collectors the server reports to.
func (s *Server) Metrics() *Metrics { return s.metrics }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

type healthHandler struct{}

func (healthHandler) Routes() []string { return []string{"GET /health"} }

func (healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
