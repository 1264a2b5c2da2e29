package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultGoogleEndpoint is the Cloud Speech-to-Text REST base URL.
	DefaultGoogleEndpoint = "https://speech.googleapis.com"
	googleScope           = "https://www.googleapis.com/auth/cloud-platform"
	providerTimeout       = 90 * time.Second
	responsePreviewLen    = 500
)

// GoogleProvider implements STT using Google Cloud Speech-to-Text REST API
type GoogleProvider struct {
	projectID  string
	apiKey     string
	endpoint   string
	httpClient *http.Client
	useAPIKey  bool // true if using API key, false if using service account
	logger     *slog.Logger
}

// isGoogleAPIKey reports whether keyData looks like an API key rather than
// service account credentials.
func isGoogleAPIKey(keyData string) bool {
	return len(keyData) == 39 && strings.HasPrefix(keyData, "AIzaSy")
}

// NewGoogleProvider creates a new Google STT provider
// keyData can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
//   - Empty, in which case application default credentials are used
func NewGoogleProvider(ctx context.Context, projectID, keyData, endpoint string, logger *slog.Logger) (*GoogleProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "stt", "provider", "google")
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")

	keyDataTrimmed := strings.TrimSpace(keyData)
	if isGoogleAPIKey(keyDataTrimmed) {
		logger.Info("using API key authentication")
		return &GoogleProvider{
			projectID:  projectID,
			apiKey:     keyDataTrimmed,
			endpoint:   endpoint,
			httpClient: &http.Client{Timeout: providerTimeout},
			useAPIKey:  true,
			logger:     logger,
		}, nil
	}

	var creds *google.Credentials
	var err error
	switch {
	case keyDataTrimmed == "":
		creds, err = google.FindDefaultCredentials(ctx, googleScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
	case strings.HasPrefix(keyDataTrimmed, "{"):
		logger.Info("using service account JSON from environment")
		creds, err = google.CredentialsFromJSON(ctx, []byte(keyDataTrimmed), googleScope)
		if err != nil {
			return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
		}
	default:
		logger.Info("reading service account key file", "path", keyDataTrimmed)
		jsonData, err := os.ReadFile(keyDataTrimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file '%s': %w", keyDataTrimmed, err)
		}
		creds, err = google.CredentialsFromJSON(ctx, jsonData, googleScope)
		if err != nil {
			return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
		}
	}

	if projectID == "" {
		projectID = creds.ProjectID
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = providerTimeout
	return &GoogleProvider{
		projectID:  projectID,
		endpoint:   endpoint,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// GoogleSTTRequest represents Google Speech-to-Text API request
type GoogleSTTRequest struct {
	Config GoogleSTTConfig `json:"config"`
	Audio  GoogleSTTAudio  `json:"audio"`
}

// GoogleSTTConfig represents recognition config
type GoogleSTTConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz *int   `json:"sampleRateHertz,omitempty"`
	LanguageCode    string `json:"languageCode"`
}

// GoogleSTTAudio represents audio data
type GoogleSTTAudio struct {
	Content string `json:"content"` // Base64 encoded
}

// GoogleSTTResponse represents Google Speech-to-Text API response
type GoogleSTTResponse struct {
	Results []GoogleSTTResult `json:"results"`
	Error   *GoogleSTTError   `json:"error,omitempty"`
}

// GoogleSTTResult represents a recognition result
type GoogleSTTResult struct {
	Alternatives []GoogleSTTAlternative `json:"alternatives"`
}

// GoogleSTTAlternative represents a transcript alternative
type GoogleSTTAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// GoogleSTTError represents an API error
type GoogleSTTError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type googleErrorEnvelope struct {
	Error *GoogleSTTError `json:"error"`
}

// Transcribe sends req to the synchronous recognize endpoint and returns the
// best alternative of the first result.
func (p *GoogleProvider) Transcribe(ctx context.Context, req *Request) (*Result, error) {
	startTime := time.Now()

	reqBody := GoogleSTTRequest{
		Config: GoogleSTTConfig{
			Encoding:        string(req.Encoding),
			SampleRateHertz: req.SampleRateHertz,
			LanguageCode:    req.LanguageCode,
		},
		Audio: GoogleSTTAudio{
			Content: base64.StdEncoding.EncodeToString(req.Audio),
		},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := p.endpoint + "/v1/speech:recognize"
	if p.useAPIKey {
		apiURL += "?key=" + p.apiKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.projectID != "" && !p.useAPIKey {
		httpReq.Header.Set("x-goog-user-project", p.projectID)
	}

	p.logger.Debug("calling speech:recognize",
		"size", len(req.Audio),
		"encoding", req.Encoding,
		"language", req.LanguageCode,
		"sample_rate", req.SampleRateHertz != nil)
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Google Speech-to-Text: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	p.logger.Debug("response received", "status", resp.StatusCode, "preview", preview(body))

	if resp.StatusCode != http.StatusOK {
		var env googleErrorEnvelope
		if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
			p.logger.Warn("API error", "code", env.Error.Code, "status", env.Error.Status, "message", env.Error.Message)
			return nil, fmt.Errorf("google speech-to-text API error: %s", env.Error.Message)
		}
		return nil, fmt.Errorf("google speech-to-text API returned status %d: %s", resp.StatusCode, preview(body))
	}

	var sttResp GoogleSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return nil, fmt.Errorf("failed to parse Google Speech-to-Text response: %w", err)
	}
	if sttResp.Error != nil {
		return nil, fmt.Errorf("google speech-to-text API error: %s", sttResp.Error.Message)
	}

	if len(sttResp.Results) == 0 || len(sttResp.Results[0].Alternatives) == 0 {
		p.logger.Info("no speech recognised", "duration", time.Since(startTime))
		return emptyResult(p.Name(), string(body)), nil
	}

	alternative := sttResp.Results[0].Alternatives[0]
	transcript := strings.TrimSpace(alternative.Transcript)
	confidence := clampConfidence(alternative.Confidence)

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

func preview(body []byte) string {
	if len(body) > responsePreviewLen {
		return string(body[:responsePreviewLen]) + "..."
	}
	return string(body)
}
