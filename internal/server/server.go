// Package server implements the admin HTTP API: health, metrics, admin
// sign-in and the recent interaction log.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abc-assistant/assistant/internal/auth"
	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/database"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
)

// Translator translates listed interactions on request. Failures fall back
// to the input text.
type Translator interface {
	TranslateText(ctx context.Context, text string, target, source language.Code) string
}

// Deps are the collaborators of the admin API.
type Deps struct {
	Logger     *slog.Logger
	Config     config.ServerConfig
	Store      database.Store
	Gate       *auth.Gate
	Translator Translator
}

// Server is the admin HTTP server.
type Server struct {
	cfg        config.ServerConfig
	store      database.Store
	gate       *auth.Gate
	translator Translator
	validate   *validator.Validate
	log        *slog.Logger
	handler    http.Handler
}

// New creates the server and its routes.
func New(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{
		cfg:        deps.Config,
		store:      deps.Store,
		gate:       deps.Gate,
		translator: deps.Translator,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        log.With("component", "admin_server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /admin/login", s.handleLogin)
	mux.HandleFunc("POST /admin/password", s.handleNewPassword)
	mux.Handle("POST /admin/logout", s.requireToken(http.HandlerFunc(s.handleLogout)))
	mux.HandleFunc("GET /admin/session", s.handleSession)
	mux.Handle("GET /admin/interactions", s.requireToken(http.HandlerFunc(s.handleInteractions)))

	s.handler = withLogging(s.log, mux)
	return s
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Admin server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.log.Info("Shutting down admin server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Admin server shutdown failed", "error", err)
		return err
	}
	return nil
}
