// Package httpapi exposes the development backend over the REST contract the
// Oculog client speaks.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/oculog/internal/devapi/logs"
	"github.com/dmitrijs2005/oculog/internal/devapi/users"
	"github.com/dmitrijs2005/oculog/internal/logging"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	users   *users.Service
	logs    *logs.Service
	logger  logging.Logger
	now     func() time.Time
}

func NewServer(addr string, l logging.Logger, us *users.Service, ls *logs.Service) *Server {
	return &Server{
		address: addr,
		logger:  l.With("module", "http_server"),
		users:   us,
		logs:    ls,
		now:     time.Now,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/signup", s.signup)
		r.Post("/refresh", s.refresh)

		r.With(s.bearerAuth).Get("/me", s.me)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)

		r.Get("/logs", s.listLogs)
		r.Post("/logs", s.createLog)
		r.Put("/logs/{id}", s.updateLog)
		r.Delete("/logs/{id}", s.deleteLog)

		r.Get("/weather", s.weather)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, kindNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, kindValidation, "Method not allowed", nil)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}
