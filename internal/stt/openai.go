package stt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"voiceanalysis/internal/audio"
)

// OpenAIProvider implements STT using the OpenAI audio transcription API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIProvider creates a Whisper-backed provider. baseURL may be empty.
func NewOpenAIProvider(apiKey, model, baseURL string, logger *slog.Logger) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger.With("component", "stt", "provider", "openai"),
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Transcribe uploads the audio and derives a confidence from the per-segment
// average log probabilities.
func (p *OpenAIProvider) Transcribe(ctx context.Context, req *Request) (*Result, error) {
	startTime := time.Now()

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: uploadName(req.Format),
		Reader:   bytes.NewReader(req.Audio),
		Language: req.Language(),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI transcription error: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		p.logger.Info("no speech recognised", "duration", time.Since(startTime))
		return emptyResult(p.Name(), ""), nil
	}

	var sum float64
	for _, seg := range resp.Segments {
		sum += math.Exp(seg.AvgLogprob)
	}
	confidence := 0.0
	if len(resp.Segments) > 0 {
		confidence = clampConfidence(sum / float64(len(resp.Segments)))
	}

	p.logger.Info("transcription complete",
		"model", p.model,
		"segments", len(resp.Segments),
		"confidence", confidence,
		"length", len(transcript),
		"duration", time.Since(startTime))

	return &Result{
		Transcript: transcript,
		Confidence: confidence,
		Provider:   p.Name(),
	}, nil
}

// uploadName picks a file name whose extension the API accepts. Unknown
// input is sent as webm, matching the encoding default.
func uploadName(format audio.Format) string {
	switch format {
	case audio.FormatWAV, audio.FormatMP3:
		return "recording" + format.Suffix()
	default:
		return "recording" + audio.FormatWebM.Suffix()
	}
}
