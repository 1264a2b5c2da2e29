package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultFPTURL is the FPT.AI ASR endpoint.
const DefaultFPTURL = "https://api.fpt.ai/hmi/asr/v1"

// FPTProvider implements STT using FPT.AI Speech-to-Text API
type FPTProvider struct {
	apiKey string
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewFPTProvider creates a new FPT STT provider
func NewFPTProvider(apiKey, url string, logger *slog.Logger) *FPTProvider {
	if url == "" {
		url = DefaultFPTURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FPTProvider{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: providerTimeout},
		logger: logger.With("component", "stt", "provider", "fpt"),
	}
}

// Name returns the provider name
func (p *FPTProvider) Name() string {
	return "fpt"
}

// FPTSTTResponse represents FPT.AI STT API response
type FPTSTTResponse struct {
	Hypotheses []struct {
		Utterance  string  `json:"utterance"`
		Confidence float64 `json:"confidence"`
	} `json:"hypotheses"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Transcribe posts the raw audio to FPT.AI and returns the first hypothesis.
// FPT.AI detects the container itself, so encoding hints are not sent.
func (p *FPTProvider) Transcribe(ctx context.Context, req *Request) (*Result, error) {
	startTime := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(req.Audio))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "text/plain")

	p.logger.Debug("calling FPT.AI", "size", len(req.Audio), "format", req.Format)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to FPT.AI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	p.logger.Debug("response received", "status", resp.StatusCode, "preview", preview(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FPT.AI API returned status %d: %s", resp.StatusCode, preview(body))
	}

	var sttResp FPTSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return nil, fmt.Errorf("failed to parse FPT.AI response: %w", err)
	}

	if sttResp.ErrorCode != 0 {
		p.logger.Warn("API error", "code", sttResp.ErrorCode, "message", sttResp.Message)
		return nil, fmt.Errorf("FPT.AI API error %d: %s", sttResp.ErrorCode, sttResp.Message)
	}

	if len(sttResp.Hypotheses) == 0 {
		p.logger.Info("no speech recognised", "duration", time.Since(startTime))
		return emptyResult(p.Name(), string(body)), nil
	}

	hyp := sttResp.Hypotheses[0]
	transcript := strings.TrimSpace(hyp.Utterance)
	confidence := clampConfidence(hyp.Confidence)

	p.logger.Info("transcription complete",
		"confidence", confidence,
		"length", len(transcript),
		"duration", time.Since(startTime))

	return &Result{
		Transcript:  transcript,
		Confidence:  confidence,
		Provider:    p.Name(),
		RawResponse: string(body),
	}, nil
}
