package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"voiceanalysis/internal/analysis"
	"voiceanalysis/internal/audio"
	"voiceanalysis/internal/config"
	"voiceanalysis/internal/similarity"
	"voiceanalysis/internal/stt"
)

var (
	compareExpected   string
	compareContext    string
	compareLanguage   string
	compareTranscribe bool
)

type compareReport struct {
	Similarity      similarity.Result `json:"similarity"`
	Transcription   string            `json:"transcription"`
	Confidence      float64           `json:"confidence"`
	IsCorrect       bool              `json:"is_correct"`
	Context         string            `json:"context"`
	Provider        string            `json:"provider"`
	CandidateFormat audio.Format      `json:"candidate_format"`
	ElapsedMS       int64             `json:"elapsed_ms"`
}

// offline stands in for a transcriber when --transcribe is not set. Every
// recording transcribes to nothing, so only the acoustic scores count.
type offline struct{}

func (offline) Name() string { return "offline" }

func (offline) Transcribe(_ context.Context, _ *stt.Request) (*stt.Result, error) {
	return &stt.Result{Provider: "offline"}, nil
}

var compareCmd = &cobra.Command{
	Use:   "compare <reference> <candidate>",
	Short: "Score a candidate recording against a reference",
	Long: `Score a candidate recording against a reference recording.

Without --transcribe no speech service is contacted and the transcript is
empty, so a silent candidate always scores zero and practice mode never
passes. With --transcribe the provider is chosen by STT_PROVIDER.

Examples:
  voicecmp compare ref.wav me.webm --expected "hello"
  voicecmp compare ref.wav me.webm --expected "hello" --context battle --transcribe`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareExpected, "expected", "", "Expected transcript")
	compareCmd.Flags().StringVar(&compareContext, "context", string(similarity.ContextPractice), "Grading context (battle or practice)")
	compareCmd.Flags().StringVar(&compareLanguage, "language", analysis.DefaultLanguage, "Spoken language")
	compareCmd.Flags().BoolVar(&compareTranscribe, "transcribe", false, "Transcribe the candidate with the configured provider")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	reference, err := readAudio(args[0])
	if err != nil {
		return err
	}
	candidate, err := readAudio(args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	var provider stt.Provider = offline{}
	if compareTranscribe {
		provider = stt.CreateProvider(ctx, cfg.STT, logger)
	}

	extractor, decoder := newExtractor(cfg, logger)
	analyzer := analysis.New(extractor, decoder, provider, logger)

	out, err := analyzer.Analyze(ctx, analysis.Request{
		Reference:    reference,
		Candidate:    candidate,
		ExpectedText: compareExpected,
		Language:     compareLanguage,
		Context:      similarity.ParseContext(compareContext),
	})
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), compareReport{
		Similarity:      out.Similarity,
		Transcription:   out.Transcript,
		Confidence:      out.Confidence,
		IsCorrect:       out.Correct,
		Context:         compareContext,
		Provider:        analyzer.Provider(),
		CandidateFormat: out.CandidateKind,
		ElapsedMS:       out.Elapsed.Milliseconds(),
	})
}
