package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/tracklab/internal/repositories"
	"github.com/desertthunder/tracklab/internal/server"
	"github.com/desertthunder/tracklab/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Serve opens the store and serves HTTP until the context is cancelled or the process is interrupted.
//
// The store is bootstrapped before the listener opens, so a schema mismatch never accepts a request.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	metrics := server.NewMetrics()
	store, closeStore, err := r.openStore(ctx, config, repositories.WithObserver(metrics.ObserveStore))
	if err != nil {
		return err
	}
	defer closeStore()

	router, err := server.NewRouter(server.Options{
		Store:      store,
		Config:     config.Server,
		CodeLength: config.Store.CodeLength,
		Logger:     r.logger,
		Metrics:    metrics,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStartupFailure, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", config.Server.Addr())
	if err != nil {
		return fmt.Errorf("%w: failed to listen on %s: %w", shared.ErrStartupFailure, config.Server.Addr(), err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          r.logger.StandardLog(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		r.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	port := ln.Addr().(*net.TCPAddr).Port
	url := shared.BrowserURL(config.Server.Host, port)
	r.logger.Info("listening", "addr", ln.Addr().String(), "url", url, "identity", store.Strategy().Kind(), "driver", config.Database.Driver)

	if cmd.Bool("open") {
		if err := r.browser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	return g.Wait()
}
