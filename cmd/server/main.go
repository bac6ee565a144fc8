package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/hourslog/internal/config"
	"github.com/JonMunkholm/hourslog/internal/core"
	"github.com/JonMunkholm/hourslog/internal/logging"
	"github.com/JonMunkholm/hourslog/internal/sheets"
	"github.com/JonMunkholm/hourslog/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"sheets_max_concurrent", cfg.Sheets.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	client, err := sheets.Open(ctx, cfg.Sheets)
	if err != nil {
		slog.Error("failed to create spreadsheet client", "error", err)
		os.Exit(1)
	}
	slog.Info("spreadsheet client ready", "spreadsheet_id", client.SpreadsheetID())

	service := core.NewService(client, core.ServiceConfig{
		MaxConcurrentFetches: cfg.Sheets.MaxConcurrent,
		FetchWait:            cfg.Sheets.MaxWait,
		FetchTimeout:         cfg.Sheets.FetchTimeout,
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown waits for active handlers, and a handler returns only
		// after all of its worksheet fetches have finished.
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err, "active_fetches", service.FetchStatus().Active)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
