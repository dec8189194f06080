package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hperssn/intervals/internal/config"
	httpapi "github.com/hperssn/intervals/internal/http"
	"github.com/hperssn/intervals/internal/runner"
	"github.com/hperssn/intervals/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	repo, err := storage.Open(cfg.Storage.Driver, cfg.DSN())
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	manager := runner.NewSessionManager(runner.Options{
		TickInterval:    cfg.Timer.TickInterval,
		Retention:       cfg.Timer.SessionRetention,
		MaxAge:          cfg.Timer.SessionMaxAge,
		CleanupInterval: cfg.Timer.CleanupInterval,
		Logger:          logger,
	})
	defer manager.Close()

	server := httpapi.NewServer(manager, repo, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     server.Router(cfg.DevUser),
		ReadTimeout: 30 * time.Second,
		// No write timeout: event streams stay open for a whole workout.
		IdleTimeout: 120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("intervals server starting",
			"addr", addr,
			"storage", cfg.Storage.Driver,
			"tick_interval", cfg.Timer.TickInterval,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	// Ending the sessions first closes their event streams so Shutdown
	// is not held up by them.
	manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
