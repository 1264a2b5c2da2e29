package features

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"voiceanalysis/internal/audio"
)

// zeroTolerance treats samples this close to zero as zero when counting crossings.
const zeroTolerance = 1e-10

var errNonFinite = errors.New("non-finite feature value")

// WaveformDecoder decodes raw bytes to a mono waveform at a given rate.
type WaveformDecoder interface {
	Decode(ctx context.Context, data []byte, sampleRate int) (audio.Waveform, error)
}

// Extractor computes FeatureSets. It holds only read-only tables and is safe
// for concurrent use.
type Extractor struct {
	decoder WaveformDecoder
	logger  *slog.Logger
	window  []float64
	melBank [][]float64
}

// NewExtractor creates an Extractor decoding input with dec.
func NewExtractor(dec WaveformDecoder, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		decoder: dec,
		logger:  logger.With("component", "features"),
		window:  hannWindow(frameLength),
		melBank: melFilterBank(SampleRate),
	}
}

// Extract decodes data at SampleRate and computes its FeatureSet.
// Zero decoded samples yield ErrEmptyAudio; any other failure is an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, data []byte) (FeatureSet, error) {
	if len(data) == 0 {
		return FeatureSet{}, ErrEmptyAudio
	}
	w, err := e.decoder.Decode(ctx, data, SampleRate)
	if err != nil {
		return FeatureSet{}, e.failure(data, err)
	}
	if w.Empty() {
		return FeatureSet{}, ErrEmptyAudio
	}

	fs, err := e.ExtractWaveform(w)
	if err != nil && !errors.Is(err, ErrEmptyAudio) {
		return FeatureSet{}, e.failure(data, err)
	}
	return fs, err
}

func (e *Extractor) failure(data []byte, err error) error {
	format := audio.DetectFormat(data)
	mime := audio.DescribeMIME(data)
	e.logger.Warn("feature extraction failed", "format", format, "mime", mime, "size", len(data), "error", err)
	return &ExtractionError{Format: format, MIME: mime, Err: err}
}

// ExtractWaveform computes the FeatureSet of an already decoded waveform.
func (e *Extractor) ExtractWaveform(w audio.Waveform) (FeatureSet, error) {
	if w.Empty() {
		return FeatureSet{}, ErrEmptyAudio
	}
	if w.SampleRate <= 0 {
		return FeatureSet{}, errors.New("invalid sample rate")
	}

	bank := e.melBank
	if w.SampleRate != SampleRate {
		bank = melFilterBank(w.SampleRate)
	}

	spectra := magnitudeSpectrogram(w.Samples, e.window)
	melDB := melPowerDB(spectra, bank)

	var fs FeatureSet
	fs.MFCCMean, fs.MFCCStd = mfccStats(melDB)
	fs.SpectralCentroid = spectralCentroid(spectra, w.SampleRate)
	fs.ZeroCrossingRate = zeroCrossingRate(w.Samples)
	fs.Tempo = estimateTempo(melDB, w.SampleRate)
	fs.PitchMean = estimatePitch(spectra, w.SampleRate)
	fs.RMSEnergy = rmsEnergy(w.Samples)
	fs.Duration = w.Duration()

	if !fs.finite() {
		return FeatureSet{}, errNonFinite
	}

	e.logger.Debug("extracted features",
		"samples", len(w.Samples),
		"duration", fs.Duration,
		"rms", fs.RMSEnergy,
		"tempo", fs.Tempo,
		"pitch", fs.PitchMean)
	return fs, nil
}

// mfccStats computes per-coefficient mean and population standard deviation across frames.
func mfccStats(melDB [][]float64) (mean, std [NumMFCC]float64) {
	coeffs := make([][]float64, NumMFCC)
	for i := range coeffs {
		coeffs[i] = make([]float64, len(melDB))
	}
	for t, row := range melDB {
		c := dctOrtho(row, NumMFCC)
		for i := 0; i < NumMFCC; i++ {
			coeffs[i][t] = c[i]
		}
	}
	for i := 0; i < NumMFCC; i++ {
		mean[i], std[i] = stat.PopMeanStdDev(coeffs[i], nil)
	}
	return mean, std
}

// spectralCentroid averages the magnitude-weighted mean frequency of each frame.
// Frames with no energy count as 0 Hz.
func spectralCentroid(spectra [][]float64, sampleRate int) float64 {
	centroids := make([]float64, len(spectra))
	for t, mag := range spectra {
		var weighted, total float64
		for k, v := range mag {
			weighted += binFrequency(k, sampleRate) * v
			total += v
		}
		if total > 0 {
			centroids[t] = weighted / total
		}
	}
	return stat.Mean(centroids, nil)
}

// zeroCrossingRate averages, over centred frames, the fraction of adjacent
// sample pairs whose signs differ. Zero counts as positive.
func zeroCrossingRate(samples []float64) float64 {
	padded := padCenter(samples, frameLength, true)
	frames := numFrames(len(samples))
	rates := make([]float64, frames)

	for t := 0; t < frames; t++ {
		seg := frame(padded, t)
		crossings := 0
		prev := signBit(seg[0])
		for _, s := range seg[1:] {
			cur := signBit(s)
			if cur != prev {
				crossings++
			}
			prev = cur
		}
		rates[t] = float64(crossings) / float64(frameLength)
	}
	return stat.Mean(rates, nil)
}

func signBit(s float64) bool {
	if math.Abs(s) <= zeroTolerance {
		return false
	}
	return s < 0
}

// rmsEnergy averages the root mean square of each centred frame.
func rmsEnergy(samples []float64) float64 {
	padded := padCenter(samples, frameLength, false)
	frames := numFrames(len(samples))
	values := make([]float64, frames)

	for t := 0; t < frames; t++ {
		var sum float64
		for _, s := range frame(padded, t) {
			sum += s * s
		}
		values[t] = math.Sqrt(sum / frameLength)
	}
	return stat.Mean(values, nil)
}
