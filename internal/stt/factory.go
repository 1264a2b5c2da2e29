package stt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"voiceanalysis/internal/config"
)

// CreateProvider creates an STT provider based on configuration. It never
// returns nil: initialisation failures yield an *Unavailable provider so
// callers see ErrUnavailable at transcription time.
func CreateProvider(ctx context.Context, cfg config.STTConfig, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "stt")

	p, err := newProvider(ctx, cfg, logger)
	if err != nil {
		logger.Warn("transcription provider unavailable", "provider", cfg.Provider, "error", err)
		return &Unavailable{Reason: err.Error()}
	}
	logger.Info("transcription provider initialised", "provider", p.Name())
	return p
}

func newProvider(ctx context.Context, cfg config.STTConfig, logger *slog.Logger) (Provider, error) {
	providerName := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if providerName == "" {
		providerName = "google"
	}

	switch providerName {
	case "google":
		return createGoogleProvider(ctx, cfg, logger)
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, logger), nil
	case "fpt":
		if cfg.FPTApiKey == "" {
			return nil, fmt.Errorf("FPT_AI_API_KEY environment variable is not set")
		}
		return NewFPTProvider(cfg.FPTApiKey, cfg.FPTURL, logger), nil
	case "none", "disabled":
		return nil, fmt.Errorf("transcription disabled by STT_PROVIDER=%s", providerName)
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: google, openai, fpt", providerName)
	}
}

// createGoogleProvider creates a Google STT provider
// GOOGLE_STT_KEY_FILE can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
//
// When it is empty, application default credentials are tried.
func createGoogleProvider(ctx context.Context, cfg config.STTConfig, logger *slog.Logger) (Provider, error) {
	p, err := NewGoogleProvider(ctx, cfg.GoogleProjectID, cfg.GoogleKeyData, cfg.GoogleEndpoint, logger)
	if err != nil {
		return nil, fmt.Errorf("google STT: %w", err)
	}
	return p, nil
}
