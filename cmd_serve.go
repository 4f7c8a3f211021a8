package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ctdata/ct-placenames/config"
	"github.com/ctdata/ct-placenames/data"
	"github.com/ctdata/ct-placenames/datapackage"
	"github.com/ctdata/ct-placenames/health"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/placenames"
	"github.com/ctdata/ct-placenames/scheduler"
	"github.com/ctdata/ct-placenames/server"
	"github.com/ctdata/ct-placenames/validation"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the place names API",
	Long: `Load configuration from the environment (and .env), fetch both data
packages, then serve them over HTTP. The names are refreshed at UPDATE_TIMES
until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.InitLoggerWithOptions(logging.Options{
		Dir:            cfg.LogDir,
		Level:          logging.ParseLevel(cfg.LogLevel),
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "failed to close log file:", err)
		}
	}()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"towns_url", cfg.TownsURL,
		"counties_url", cfg.CountiesURL,
		"fetch_timeout", cfg.FetchTimeout.String())

	dataContainer := data.NewDataContainer()
	loader := datapackage.NewLoader(datapackage.NewHTTPClient(cfg.FetchTimeout))
	parser := placenames.NewParser(loader, cfg.TownsURL, cfg.CountiesURL)

	sched := scheduler.NewScheduler(dataContainer, parser, validation.NewDataValidator(), cfg.UpdateTimes)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer, health.NewHealthChecker(dataContainer, cfg.UpdateTimes))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
