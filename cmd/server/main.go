package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/pelajar-gateway/internal/config"
	"github.com/sekolahku/pelajar-gateway/internal/handler"
	"github.com/sekolahku/pelajar-gateway/internal/logger"
	"github.com/sekolahku/pelajar-gateway/internal/router"
	"github.com/sekolahku/pelajar-gateway/internal/schoolapi"
	"github.com/sekolahku/pelajar-gateway/internal/service"
	"github.com/sekolahku/pelajar-gateway/internal/session"
	"github.com/sekolahku/pelajar-gateway/internal/validator"
	"github.com/sekolahku/pelajar-gateway/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("Starting Pelajar Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Initialize School API Client ──────────────────────────────────
	apiClient, err := schoolapi.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid school API configuration")
	}

	// ─── Initialize Session Store ──────────────────────────────────────
	store := session.NewStore(cfg.SessionTTL)

	// ─── Initialize Services ───────────────────────────────────────────
	importService := service.NewImportService(store, apiClient, log)

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Import:   handler.NewImportHandler(importService, cfg.MaxUploadBytes),
		Template: handler.NewTemplateHandler(),
	}

	// ─── Start Background Workers ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	sweeper := worker.NewSessionSweeper(store, cfg.SweepInterval, log)
	go sweeper.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the session sweeper.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
