package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"voiceanalysis/internal/audio"
	"voiceanalysis/internal/config"
	"voiceanalysis/internal/features"
)

// printResult writes v as YAML, or as indented JSON when --json is set.
func printResult(w io.Writer, v any) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func readAudio(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// newDecoder builds the same decoder the server uses.
func newDecoder(cfg *config.Config, logger *slog.Logger) *audio.Decoder {
	transcoder := audio.NewTranscoder(cfg.FFmpegPath)
	if !transcoder.Available() {
		logger.Debug("ffmpeg not found, only WAV input can be decoded")
	}
	return audio.NewDecoder(transcoder, cfg.TempDir, logger)
}

func newExtractor(cfg *config.Config, logger *slog.Logger) (*features.Extractor, *audio.Decoder) {
	dec := newDecoder(cfg, logger)
	return features.NewExtractor(dec, logger), dec
}
