// Package features reduces a waveform to a fixed-shape acoustic fingerprint:
// cepstral statistics plus spectral, rhythmic, energetic and temporal scalars.
package features

import (
	"errors"
	"fmt"
	"math"

	"voiceanalysis/internal/audio"
)

const (
	// SampleRate is the rate every input is decoded to before analysis.
	SampleRate = 22050
	// NumMFCC is the number of cepstral coefficients kept per frame.
	NumMFCC = 13

	frameLength = 2048
	hopLength   = 512
	numMels     = 128

	// DefaultTempo is reported when tempo estimation cannot produce a value.
	DefaultTempo = 120.0
	// pitchThreshold is the per-frame peak threshold relative to the frame maximum.
	pitchThreshold = 0.1
	pitchMinHz     = 150.0
	pitchMaxHz     = 4000.0
)

// FeatureSet is the per-recording fingerprint. All fields are finite.
type FeatureSet struct {
	MFCCMean         [NumMFCC]float64 `json:"mfcc_mean"`
	MFCCStd          [NumMFCC]float64 `json:"mfcc_std"`
	SpectralCentroid float64          `json:"spectral_centroid"`
	ZeroCrossingRate float64          `json:"zero_crossing_rate"`
	Tempo            float64          `json:"tempo"`
	PitchMean        float64          `json:"pitch_mean"`
	RMSEnergy        float64          `json:"rms_energy"`
	Duration         float64          `json:"duration"`
}

// ErrEmptyAudio is returned when decoding yields no samples.
var ErrEmptyAudio = errors.New("audio file is empty")

// ExtractionError reports a decode or compute failure. Format and MIME
// describe the input as sniffed from its bytes.
type ExtractionError struct {
	Format audio.Format
	MIME   string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract audio features (format=%s, mime=%s): %v", e.Format, e.MIME, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (f FeatureSet) finite() bool {
	scalars := []float64{f.SpectralCentroid, f.ZeroCrossingRate, f.Tempo, f.PitchMean, f.RMSEnergy, f.Duration}
	for _, v := range scalars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for i := 0; i < NumMFCC; i++ {
		if math.IsNaN(f.MFCCMean[i]) || math.IsInf(f.MFCCMean[i], 0) ||
			math.IsNaN(f.MFCCStd[i]) || math.IsInf(f.MFCCStd[i], 0) {
			return false
		}
	}
	return true
}
