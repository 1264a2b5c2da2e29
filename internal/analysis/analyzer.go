// Package analysis runs one reference/candidate comparison end to end:
// feature extraction, transcription, scoring and the grading decision.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voiceanalysis/internal/audio"
	"voiceanalysis/internal/features"
	"voiceanalysis/internal/similarity"
	"voiceanalysis/internal/stt"
)

// DefaultLanguage is used when a request names none.
const DefaultLanguage = "en"

// FeatureExtractor turns encoded audio into a FeatureSet.
type FeatureExtractor interface {
	Extract(ctx context.Context, data []byte) (features.FeatureSet, error)
}

// RateProber reports the native sample rate of encoded audio, 0 if unknown.
type RateProber interface {
	SampleRate(ctx context.Context, data []byte) int
}

// Request is one comparison.
type Request struct {
	ID           string
	Reference    []byte
	Candidate    []byte
	ExpectedText string
	Language     string
	Context      similarity.Context
}

// Outcome is the result of a comparison.
type Outcome struct {
	Similarity    similarity.Result
	Transcript    string
	Confidence    float64
	Correct       bool
	Context       similarity.Context
	Reference     features.FeatureSet
	Candidate     features.FeatureSet
	CandidateKind audio.Format
	Elapsed       time.Duration
}

// Analyzer is safe for concurrent use; it holds no per-request state.
type Analyzer struct {
	extractor   FeatureExtractor
	prober      RateProber
	transcriber stt.Provider
	logger      *slog.Logger
}

// New creates an Analyzer. A nil transcriber is treated as unavailable.
func New(extractor FeatureExtractor, prober RateProber, transcriber stt.Provider, logger *slog.Logger) *Analyzer {
	if transcriber == nil {
		transcriber = &stt.Unavailable{Reason: "no provider configured"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		extractor:   extractor,
		prober:      prober,
		transcriber: transcriber,
		logger:      logger.With("component", "analysis"),
	}
}

// TranscriptionAvailable reports whether the transcriber initialised.
func (a *Analyzer) TranscriptionAvailable() bool {
	return stt.Available(a.transcriber)
}

// Provider returns the transcriber name.
func (a *Analyzer) Provider() string {
	return a.transcriber.Name()
}

// Analyze compares req.Candidate against req.Reference. An unavailable
// transcriber fails the request before any audio is decoded.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	logger := a.logger
	if req.ID != "" {
		logger = logger.With("request_id", req.ID)
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if req.Context == "" {
		req.Context = similarity.ContextPractice
	}

	if !a.TranscriptionAvailable() {
		return nil, stt.ErrUnavailable
	}

	ref, err := a.extractor.Extract(ctx, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference audio: %w", err)
	}
	cand, err := a.extractor.Extract(ctx, req.Candidate)
	if err != nil {
		return nil, fmt.Errorf("user audio: %w", err)
	}
	if ref.RMSEnergy < similarity.SilenceThreshold {
		logger.Warn("reference recording is near silent", "rms", ref.RMSEnergy)
	}

	format := audio.DetectFormat(req.Candidate)
	rate := 0
	if a.prober != nil {
		rate = a.prober.SampleRate(ctx, req.Candidate)
	}
	sttReq := stt.NewRequest(req.Candidate, req.Language, format, rate)

	tr, err := a.transcriber.Transcribe(ctx, sttReq)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}

	score := similarity.Score(ref, cand, tr.Transcript, req.ExpectedText)
	correct := similarity.Decide(req.Context, score.Overall, tr.Transcript, req.ExpectedText)

	out := &Outcome{
		Similarity:    score,
		Transcript:    tr.Transcript,
		Confidence:    tr.Confidence,
		Correct:       correct,
		Context:       req.Context,
		Reference:     ref,
		Candidate:     cand,
		CandidateKind: format,
		Elapsed:       time.Since(start),
	}

	logger.Info("analysis complete",
		"context", req.Context,
		"format", format,
		"sample_rate", rate,
		"overall", score.Overall,
		"correct", correct,
		"transcript_length", len(tr.Transcript),
		"silent", similarity.IsSilent(cand.RMSEnergy, tr.Transcript),
		"elapsed", out.Elapsed)
	return out, nil
}
