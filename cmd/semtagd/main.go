// Command semtagd serves document checks over HTTP.
//
// Usage:
//
//	semtagd [-config semtag.yaml]
//
// The configuration path may also be given in SEMTAG_CONFIG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tsawler/semtag/config"
	"github.com/tsawler/semtag/internal/api"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, log, err := newServer(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "semtagd: %v\n", err)
		os.Exit(2)
	}

	log.Info("starting semtagd", "address", srv.Addr)
	if err := serve(ctx, srv, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newServer loads the configuration named by -config or SEMTAG_CONFIG, or
// the defaults, and builds the HTTP server for it
func newServer(args []string, getenv func(string) string, stderr io.Writer) (*http.Server, *slog.Logger, error) {
	fs := flag.NewFlagSet("semtagd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", getenv("SEMTAG_CONFIG"), "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		parsed, err := config.Parse(*configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		cfg = parsed
	}

	log := cfg.Logger(stderr)
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.NewServer(cfg.Checker(log), log, cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, log, nil
}

// serve runs srv until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
