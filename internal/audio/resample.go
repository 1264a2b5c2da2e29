package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts w to the target rate. Waveforms already at rate are returned as is.
func Resample(w Waveform, rate int) (Waveform, error) {
	if rate <= 0 {
		return Waveform{}, fmt.Errorf("invalid target sample rate %d", rate)
	}
	if w.SampleRate == rate || w.Empty() {
		return Waveform{Samples: w.Samples, SampleRate: rate}, nil
	}
	if w.SampleRate <= 0 {
		return Waveform{}, fmt.Errorf("invalid source sample rate %d", w.SampleRate)
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(w.SampleRate),
		OutputRate: float64(rate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return Waveform{}, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := r.Process(w.Samples)
	if err != nil {
		return Waveform{}, fmt.Errorf("resample error: %w", err)
	}
	tail, err := r.Flush()
	if err != nil {
		return Waveform{}, fmt.Errorf("resample flush error: %w", err)
	}
	out = append(out, tail...)

	// Output length tracks the input duration exactly, whatever the filter delay.
	want := int(math.Round(float64(len(w.Samples)) * float64(rate) / float64(w.SampleRate)))
	if len(out) > want {
		out = out[:want]
	}
	for len(out) < want {
		out = append(out, 0)
	}
	return Waveform{Samples: out, SampleRate: rate}, nil
}
