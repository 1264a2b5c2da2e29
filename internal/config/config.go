package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultMaxContentLength bounds request bodies; base64 audio for two clips fits easily.
const DefaultMaxContentLength = 100 << 20

type Config struct {
	Port             string
	GinMode          string
	LogLevel         string
	MaxContentLength int64
	TempDir          string
	FFmpegPath       string
	STT              STTConfig
}

// STTConfig selects and configures the transcription provider.
type STTConfig struct {
	Provider        string
	GoogleKeyData   string
	GoogleProjectID string
	GoogleEndpoint  string
	OpenAIKey       string
	OpenAIModel     string
	OpenAIBaseURL   string
	FPTApiKey       string
	FPTURL          string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "7759"),
		GinMode:    os.Getenv("GIN_MODE"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		TempDir:    getEnv("TEMP_DIR", os.TempDir()),
		FFmpegPath: os.Getenv("FFMPEG_PATH"),
		STT: STTConfig{
			Provider:        strings.ToLower(getEnv("STT_PROVIDER", "google")),
			GoogleKeyData:   firstEnv("GOOGLE_STT_KEY_FILE", "GOOGLE_APPLICATION_CREDENTIALS"),
			GoogleProjectID: os.Getenv("GOOGLE_STT_PROJECT_ID"),
			GoogleEndpoint:  os.Getenv("GOOGLE_STT_ENDPOINT"),
			OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     getEnv("OPENAI_STT_MODEL", "whisper-1"),
			OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
			FPTApiKey:       os.Getenv("FPT_AI_API_KEY"),
			FPTURL:          getEnv("FPT_AI_STT_URL", "https://api.fpt.ai/hmi/asr/v1"),
		},
	}

	limit, err := getEnvInt64("MAX_CONTENT_LENGTH", DefaultMaxContentLength)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", limit)
	}
	cfg.MaxContentLength = limit

	// Missing provider credentials are not fatal: the provider factory
	// reports an unavailable transcriber and /health exposes it.
	return cfg, nil
}

// NewLogger builds a text slog logger at the given level ("debug", "info", "warn", "error").
func NewLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
