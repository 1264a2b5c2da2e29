package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"voiceanalysis/internal/analysis"
	"voiceanalysis/internal/api"
	"voiceanalysis/internal/audio"
	"voiceanalysis/internal/config"
	"voiceanalysis/internal/features"
	"voiceanalysis/internal/metrics"
	"voiceanalysis/internal/stt"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	// Set Gin mode (default to release mode)
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transcoder := audio.NewTranscoder(cfg.FFmpegPath)
	if !transcoder.Available() {
		logger.Warn("ffmpeg not found, only WAV input can be decoded")
	}
	decoder := audio.NewDecoder(transcoder, cfg.TempDir, logger)
	extractor := features.NewExtractor(decoder, logger)

	provider := stt.CreateProvider(ctx, cfg.STT, logger)
	if !stt.Available(provider) {
		logger.Warn("transcription not available, analysis requests will fail")
	}

	analyzer := analysis.New(extractor, decoder, provider, logger)
	handler := api.NewHandler(analyzer, metrics.NewRecorder(), cfg.MaxContentLength, logger)

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.RequestLogger(logger))

	// Add CORS middleware for browser clients
	r.Use(api.CORS())

	// Register routes
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("voice analysis service running", "addr", srv.Addr, "provider", provider.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
