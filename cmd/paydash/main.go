package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"paydash/internal/config"
	"paydash/internal/gateway"
	"paydash/internal/gateway/memory"
	apphttp "paydash/internal/http"
	"paydash/internal/log"
	"paydash/internal/refcodes"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	var src gateway.Source
	switch cfg.DataBackend {
	case "gateway":
		client, err := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayTimeout)
		if err != nil {
			logger.Error("Failed to initialize gateway client", "error", err, "base_url", cfg.GatewayBaseURL)
			os.Exit(1)
		}
		src = client
		logger.Info("Initialized gateway backend", "base_url", cfg.GatewayBaseURL)
	default:
		src = memory.NewFromFiles(cfg.DataDir)
		logger.Info("Initialized memory backend", "data_dir", cfg.DataDir)
	}

	codes := refcodes.New(src, cfg.RefCodeTTL, logger.WithComponent(log.ComponentRefCodes))

	srv := apphttp.NewServer(":"+cfg.Port, src, codes, logger, cfg.SnapshotTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting paydash server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
