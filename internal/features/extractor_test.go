package features

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceanalysis/internal/audio"
)

type fakeDecoder struct {
	wave audio.Waveform
	err  error
}

func (f fakeDecoder) Decode(_ context.Context, _ []byte, _ int) (audio.Waveform, error) {
	return f.wave, f.err
}

func tone(freq, seconds float64, amp float64) audio.Waveform {
	n := int(seconds * SampleRate)
	s := make([]float64, n)
	for i := range s {
		s[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/SampleRate)
	}
	return audio.Waveform{Samples: s, SampleRate: SampleRate}
}

func silence(seconds float64) audio.Waveform {
	return audio.Waveform{Samples: make([]float64, int(seconds*SampleRate)), SampleRate: SampleRate}
}

func clicks(bpm, seconds float64) audio.Waveform {
	w := silence(seconds)
	period := int(60.0 / bpm * SampleRate)
	for start := period / 2; start < len(w.Samples); start += period {
		for i := 0; i < 256 && start+i < len(w.Samples); i++ {
			w.Samples[start+i] = 0.8 * math.Exp(-float64(i)/40) * math.Sin(2*math.Pi*1000*float64(i)/SampleRate)
		}
	}
	return w
}

func TestExtractWaveformTone(t *testing.T) {
	ex := NewExtractor(fakeDecoder{}, nil)

	fs, err := ex.ExtractWaveform(tone(440, 1.0, 0.5))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, fs.Duration, 1e-12)
	assert.InDelta(t, 440, fs.PitchMean, 40)
	// leakage from the truncated edge frames pulls the centroid upward
	assert.Greater(t, fs.SpectralCentroid, 300.0)
	assert.Less(t, fs.SpectralCentroid, 1500.0)
	// a 440 Hz sine crosses zero 880 times a second
	assert.InDelta(t, 880.0/SampleRate, fs.ZeroCrossingRate, 0.01)
	// RMS of a sine is amp/sqrt(2); edge frames are partly padded
	assert.InDelta(t, 0.5/math.Sqrt2, fs.RMSEnergy, 0.05)
	assert.True(t, fs.finite())
}

func TestExtractWaveformSilence(t *testing.T) {
	ex := NewExtractor(fakeDecoder{}, nil)

	fs, err := ex.ExtractWaveform(silence(1.0))
	require.NoError(t, err)

	assert.Zero(t, fs.RMSEnergy)
	assert.Zero(t, fs.PitchMean)
	assert.Zero(t, fs.ZeroCrossingRate)
	assert.Zero(t, fs.SpectralCentroid)
	// no onsets at all
	assert.Zero(t, fs.Tempo)
	assert.InDelta(t, 1.0, fs.Duration, 1e-12)
	for i := 0; i < NumMFCC; i++ {
		assert.InDelta(t, 0, fs.MFCCStd[i], 1e-9)
	}
}

func TestEstimateTempoWithoutOnsets(t *testing.T) {
	flat := make([][]float64, 64)
	for i := range flat {
		flat[i] = make([]float64, numMels)
		for m := range flat[i] {
			flat[i][m] = -80
		}
	}
	assert.Zero(t, estimateTempo(flat, SampleRate))

	// falling energy has no positive flux either
	for i := range flat {
		for m := range flat[i] {
			flat[i][m] = -float64(i)
		}
	}
	assert.Zero(t, estimateTempo(flat, SampleRate))

	assert.Equal(t, DefaultTempo, estimateTempo(flat[:3], SampleRate))
}

func TestExtractWaveformShortInput(t *testing.T) {
	ex := NewExtractor(fakeDecoder{}, nil)

	fs, err := ex.ExtractWaveform(audio.Waveform{Samples: []float64{0.1, -0.1, 0.2}, SampleRate: SampleRate})
	require.NoError(t, err)
	assert.Equal(t, DefaultTempo, fs.Tempo)
	assert.InDelta(t, 3.0/SampleRate, fs.Duration, 1e-15)
	assert.True(t, fs.finite())
}

func TestExtractWaveformDeterministic(t *testing.T) {
	ex := NewExtractor(fakeDecoder{}, nil)
	w := tone(300, 0.5, 0.3)

	a, err := ex.ExtractWaveform(w)
	require.NoError(t, err)
	b, err := ex.ExtractWaveform(w)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractWaveformOtherRate(t *testing.T) {
	ex := NewExtractor(fakeDecoder{}, nil)
	n := 16000
	s := make([]float64, n)
	for i := range s {
		s[i] = 0.4 * math.Sin(2*math.Pi*500*float64(i)/16000)
	}

	fs, err := ex.ExtractWaveform(audio.Waveform{Samples: s, SampleRate: 16000})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fs.Duration, 1e-12)
	assert.InDelta(t, 500, fs.PitchMean, 40)
}

func TestEstimateTempoClickTrain(t *testing.T) {
	ex := NewExtractor(fakeDecoder{}, nil)

	fs, err := ex.ExtractWaveform(clicks(100, 6))
	require.NoError(t, err)
	assert.InDelta(t, 100, fs.Tempo, 6)
}

func TestExtractEmpty(t *testing.T) {
	ex := NewExtractor(fakeDecoder{wave: audio.Waveform{SampleRate: SampleRate}}, nil)

	_, err := ex.Extract(context.Background(), []byte("RIFF"))
	assert.ErrorIs(t, err, ErrEmptyAudio)

	_, err = ex.ExtractWaveform(audio.Waveform{SampleRate: SampleRate})
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestExtractDecodeFailure(t *testing.T) {
	cause := errors.New("boom")
	ex := NewExtractor(fakeDecoder{err: cause}, nil)

	_, err := ex.Extract(context.Background(), []byte{0x1A, 0x45, 0xDF, 0xA3, 1, 2, 3, 4})
	require.Error(t, err)

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, audio.FormatWebM, extErr.Format)
	assert.NotEmpty(t, extErr.MIME)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to extract audio features")
}

func TestExtractWAVEndToEnd(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.wav")
	require.NoError(t, err)
	require.NoError(t, audio.WriteWAV(f, tone(440, 0.75, 0.5)))
	require.NoError(t, f.Close())
	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	ex := NewExtractor(audio.NewDecoder(nil, t.TempDir(), nil), nil)
	fs, err := ex.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, fs.Duration, 1e-9)
	assert.InDelta(t, 440, fs.PitchMean, 40)
	assert.Greater(t, fs.RMSEnergy, 0.01)
}

func TestExtractConcurrent(t *testing.T) {
	w := tone(440, 0.5, 0.5)
	ex := NewExtractor(fakeDecoder{wave: w}, nil)
	want, err := ex.ExtractWaveform(w)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]FeatureSet, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ex.Extract(context.Background(), []byte("x"))
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestMelScaleRoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 100, 999, 1000, 4000, 11025} {
		assert.InDelta(t, hz, melToHz(hzToMel(hz)), 1e-6)
	}
	assert.InDelta(t, 15.0, hzToMel(1000), 1e-9)
}

func TestMelFilterBankShape(t *testing.T) {
	bank := melFilterBank(SampleRate)
	require.Len(t, bank, numMels)
	for m, row := range bank {
		require.Len(t, row, frameLength/2+1)
		var sum float64
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.Greater(t, sum, 0.0, "filter %d is empty", m)
	}
}

func TestDCTOrthoConstant(t *testing.T) {
	x := make([]float64, 16)
	for i := range x {
		x[i] = 2
	}
	c := dctOrtho(x, 4)
	assert.InDelta(t, 2*math.Sqrt(16), c[0], 1e-9)
	for k := 1; k < 4; k++ {
		assert.InDelta(t, 0, c[k], 1e-9)
	}
}

func TestZeroCrossingTolerance(t *testing.T) {
	s := make([]float64, 4096)
	for i := range s {
		if i%2 == 0 {
			s[i] = 1e-12
		} else {
			s[i] = -1e-12
		}
	}
	assert.Zero(t, zeroCrossingRate(s))
}

func TestHannWindowPeriodic(t *testing.T) {
	w := hannWindow(8)
	assert.InDelta(t, 0, w[0], 1e-12)
	assert.InDelta(t, 1, w[4], 1e-12)
	assert.InDelta(t, w[1], w[7], 1e-12)
}
