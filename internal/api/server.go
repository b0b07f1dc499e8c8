package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNotLoopback is returned for a listen address outside the local host.
var ErrNotLoopback = errors.New("listen address must be a loopback address")

const shutdownTimeout = 10 * time.Second

// CheckLoopback accepts host:port addresses bound to localhost, 127.0.0.0/8
// or ::1.
func CheckLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("listen address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("%w: %q", ErrNotLoopback, addr)
	}
	return nil
}

// Server runs the HTTP surface next to any background tasks, such as the
// note watcher, until ctx is cancelled or a shutdown signal arrives.
type Server struct {
	Addr    string
	Handler http.Handler
	Logger  *slog.Logger
	// Background tasks run in the same group and receive its context.
	Background []func(ctx context.Context) error
}

// Run listens on s.Addr and blocks until shutdown completes.
func (s *Server) Run(ctx context.Context) error {
	if err := CheckLoopback(s.Addr); err != nil {
		return err
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	httpServer := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	for _, task := range s.Background {
		task := task
		g.Go(func() error {
			return task(gCtx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Server error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// errShutdown cancels the group once the HTTP server has been shut down so
// background tasks stop too.
var errShutdown = errors.New("server shut down")
