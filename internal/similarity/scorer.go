// Package similarity fuses acoustic and textual evidence into a single
// score and turns that score into a grading verdict.
package similarity

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"gonum.org/v1/gonum/floats"

	"voiceanalysis/internal/features"
)

// Fusion weights of the overall score. Acoustic terms dominate.
const (
	WeightSpectral      = 0.4
	WeightProsodic      = 0.3
	WeightPhonetic      = 0.25
	WeightTranscription = 0.05

	phoneticSpectralShare = 0.8
	phoneticProsodicShare = 0.2
)

// Result holds the component similarities of one comparison.
type Result struct {
	Spectral      float64 `json:"spectral"`
	Prosodic      float64 `json:"prosodic"`
	Phonetic      float64 `json:"phonetic"`
	Transcription float64 `json:"transcription"`
	Overall       float64 `json:"overall"`
}

// Score compares the candidate recording against the reference.
// A silent candidate short-circuits to the zero Result.
func Score(ref, cand features.FeatureSet, transcript, expected string) Result {
	if IsSilent(cand.RMSEnergy, transcript) {
		return Result{}
	}

	var r Result
	r.Spectral = Spectral(ref.MFCCMean, cand.MFCCMean)
	r.Prosodic = Prosodic(ref, cand)
	r.Phonetic = phoneticSpectralShare*r.Spectral + phoneticProsodicShare*r.Prosodic
	r.Transcription = Transcription(transcript, expected)

	overall := WeightSpectral*r.Spectral +
		WeightProsodic*r.Prosodic +
		WeightPhonetic*r.Phonetic +
		WeightTranscription*r.Transcription
	r.Overall = clamp01(overall)
	return r
}

// Spectral is the cosine similarity of two MFCC mean vectors, or 0 when
// either vector has zero norm.
func Spectral(a, b [features.NumMFCC]float64) float64 {
	na := floats.Norm(a[:], 2)
	nb := floats.Norm(b[:], 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a[:], b[:]) / (na * nb)
}

// Prosodic averages the ratio similarities of duration, tempo and energy.
func Prosodic(ref, cand features.FeatureSet) float64 {
	return (ratioSimilarity(ref.Duration, cand.Duration) +
		ratioSimilarity(ref.Tempo, cand.Tempo) +
		ratioSimilarity(ref.RMSEnergy, cand.RMSEnergy)) / 3
}

func ratioSimilarity(a, b float64) float64 {
	m := math.Max(a, b)
	if m <= 0 {
		return 0
	}
	return 1 - math.Abs(a-b)/m
}

// Transcription scores the recognised text against the expected phrase.
// An empty transcript scores 0 without consulting the edit distance.
func Transcription(transcript, expected string) float64 {
	if strings.TrimSpace(transcript) == "" {
		return 0
	}
	a, b := normalize(transcript), normalize(expected)
	if a == b {
		return 1
	}

	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return math.Max(0, 1-float64(d)/float64(longest))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
