package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"voiceanalysis/internal/analysis"
	"voiceanalysis/internal/metrics"
	"voiceanalysis/internal/model"
	"voiceanalysis/internal/similarity"
	"voiceanalysis/internal/stt"
	"voiceanalysis/internal/utils"
)

const serviceName = "voice-analysis"

// validate is the shared validator instance for request validation.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// Analyzer runs comparisons and reports transcriber health.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Outcome, error)
	TranscriptionAvailable() bool
	Provider() string
}

// Handler serves the analysis API.
type Handler struct {
	analyzer Analyzer
	metrics  *metrics.Recorder
	logger   *slog.Logger
	maxBody  int64
}

// NewHandler creates a Handler. recorder may be nil; maxBody <= 0 disables the body limit.
func NewHandler(analyzer Analyzer, recorder *metrics.Recorder, maxBody int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		analyzer: analyzer,
		metrics:  recorder,
		logger:   logger.With("component", "api"),
		maxBody:  maxBody,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Health check
	r.GET("/health", h.healthCheck)
	r.POST("/analyze", BodyLimit(h.maxBody), h.analyze)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.healthCheck)
		v1.POST("/analyze", BodyLimit(h.maxBody), h.analyze)
	}

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// healthCheck returns server health status
func (h *Handler) healthCheck(c *gin.Context) {
	available := h.analyzer.TranscriptionAvailable()
	utils.Success(c, model.HealthResponse{
		Status:                 "healthy",
		Service:                serviceName,
		TranscriptionAvailable: available,
		GoogleCloudAvailable:   available,
		Provider:               h.analyzer.Provider(),
	})
}

// analyze compares the user's recording with the ground truth recording
func (h *Handler) analyze(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString(requestIDKey)
	logger := h.logger.With("request_id", requestID)

	req, gradingContext, err := h.decodeRequest(c)
	if err != nil {
		h.observe(gradingContext, metrics.OutcomeInvalid, start)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", "limit", tooLarge.Limit)
			utils.Error(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		logger.Info("invalid analysis request", "error", err)
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = requestID

	logger.Info("analysis requested",
		"language", req.Language,
		"context", gradingContext,
		"expected_length", len(req.ExpectedText),
		"reference_size", len(req.Reference),
		"user_size", len(req.Candidate))

	out, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		h.observe(gradingContext, metrics.OutcomeError, start)
		logger.Error("analysis failed", "error", err)
		msg := err.Error()
		if errors.Is(err, stt.ErrUnavailable) {
			msg = stt.ErrUnavailable.Error()
		}
		utils.Error(c, http.StatusInternalServerError, msg)
		return
	}

	h.observe(gradingContext, metrics.Outcome(out.Correct), start)
	h.metrics.ObserveSimilarity(out.Similarity.Overall)

	utils.Success(c, model.AnalyzeResponse{
		Similarity:    out.Similarity.Overall,
		Transcription: out.Transcript,
		Confidence:    out.Confidence,
		Features: model.FeatureScores{
			Spectral: out.Similarity.Spectral,
			Prosodic: out.Similarity.Prosodic,
			Phonetic: out.Similarity.Phonetic,
			Overall:  out.Similarity.Overall,
		},
		IsCorrect: out.Correct,
		Context:   gradingContext,
		Status:    utils.StatusSuccess,
	})
}

// decodeRequest parses and validates the body. The returned context string
// is the client's value, echoed back verbatim.
func (h *Handler) decodeRequest(c *gin.Context) (analysis.Request, string, error) {
	var body model.AnalyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return analysis.Request{}, "", err
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return analysis.Request{}, "", &ValidationError{Field: "body", Reason: "empty request body"}
		case errors.As(err, &typeErr):
			return analysis.Request{}, "", &ValidationError{Field: typeErr.Field, Reason: "wrong type"}
		case errors.As(err, &syntaxErr):
			return analysis.Request{}, "", &ValidationError{Field: "body", Reason: "malformed JSON"}
		default:
			return analysis.Request{}, "", &ValidationError{Field: "body", Reason: err.Error()}
		}
	}

	gradingContext := body.Context
	if gradingContext == "" {
		gradingContext = string(similarity.ContextPractice)
	}

	if err := validate.Struct(&body); err != nil {
		return analysis.Request{}, gradingContext, validationFailure(err)
	}

	reference, err := base64.StdEncoding.DecodeString(*body.GroundTruthAudio)
	if err != nil {
		return analysis.Request{}, gradingContext, &ValidationError{Field: "groundTruthAudio", Reason: "invalid base64"}
	}
	candidate, err := base64.StdEncoding.DecodeString(*body.UserAudio)
	if err != nil {
		return analysis.Request{}, gradingContext, &ValidationError{Field: "userAudio", Reason: "invalid base64"}
	}

	language := body.Language
	if language == "" {
		language = analysis.DefaultLanguage
	}

	return analysis.Request{
		Reference:    reference,
		Candidate:    candidate,
		ExpectedText: *body.ExpectedText,
		Language:     language,
		Context:      similarity.ParseContext(gradingContext),
	}, gradingContext, nil
}

func (h *Handler) observe(gradingContext, outcome string, start time.Time) {
	label := string(similarity.ParseContext(gradingContext))
	h.metrics.ObserveAnalysis(label, outcome, time.Since(start))
}
