/*
Package server owns the HTTP serving lifecycle: listener setup, signal
handling, and graceful shutdown. The routes themselves live in the api
package; this package only runs them.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promolang/promolang/internal/core/config"
)

// Server wraps http.Server with graceful shutdown wired to SIGINT and
// SIGTERM.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
	timeout    time.Duration
}

// New builds a server from configuration. handler is typically
// api.NewAPI(...).Router.
func New(cfg *config.ServerConfig, handler http.Handler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
			IdleTimeout:  cfg.RequestTimeout * 3,
		},
		log:     log,
		timeout: cfg.RequestTimeout,
	}
}

// Run serves until ctx is canceled or a termination signal arrives, then
// drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", slog.Duration("drain_timeout", s.timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
