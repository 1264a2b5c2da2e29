package audio

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, seconds float64, rate int, amp float64) Waveform {
	n := int(seconds * float64(rate))
	s := make([]float64, n)
	for i := range s {
		s[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return Waveform{Samples: s, SampleRate: rate}
}

func wavBytes(t *testing.T, w Waveform) []byte {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.wav")
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, w))
	require.NoError(t, f.Close())
	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return data
}

func TestWAVRoundTrip(t *testing.T) {
	src := sine(440, 0.5, 22050, 0.5)
	data := wavBytes(t, src)
	assert.Equal(t, FormatWAV, DetectFormat(data))
	assert.Equal(t, 22050, WAVSampleRate(data))

	got, err := DecodeWAV(data)
	require.NoError(t, err)
	require.Len(t, got.Samples, len(src.Samples))
	assert.Equal(t, 22050, got.SampleRate)
	for i := range src.Samples {
		assert.InDelta(t, src.Samples[i], got.Samples[i], 1.0/16384)
	}
	assert.InDelta(t, 0.5, got.Duration(), 1e-9)
}

func TestDecodeWAVInvalid(t *testing.T) {
	_, err := DecodeWAV([]byte("RIFF\x00\x00\x00\x00WAVEjunk"))
	require.Error(t, err)

	_, err = DecodeWAV([]byte("not a wav"))
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestWAVSampleRateUnreadable(t *testing.T) {
	assert.Equal(t, 0, WAVSampleRate([]byte("garbage")))
}

func TestResamplePassthrough(t *testing.T) {
	w := sine(220, 0.1, 22050, 0.3)
	got, err := Resample(w, 22050)
	require.NoError(t, err)
	assert.Equal(t, w.Samples, got.Samples)

	_, err = Resample(w, 0)
	require.Error(t, err)
}

func TestResampleChangesRate(t *testing.T) {
	tests := []struct {
		name string
		from int
		secs float64
		want int
	}{
		{"downsample 44.1k", 44100, 1.0, 22050},
		{"upsample 8k", 8000, 1.0, 22050},
		{"upsample 16k two seconds", 16000, 2.0, 44100},
		{"48k fractional", 48000, 0.5, 11025},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sine(440, tt.secs, tt.from, 0.5)
			got, err := Resample(w, 22050)
			require.NoError(t, err)
			assert.Equal(t, 22050, got.SampleRate)
			assert.Len(t, got.Samples, tt.want)
			assert.InDelta(t, w.Duration(), got.Duration(), 1e-3)
		})
	}
}

func TestDecoderKeepsDurationAcrossRates(t *testing.T) {
	dec := NewDecoder(nil, t.TempDir(), nil)
	for _, rate := range []int{8000, 16000, 22050, 44100} {
		w, err := dec.Decode(context.Background(), wavBytes(t, sine(440, 2.0, rate, 0.5)), 22050)
		require.NoError(t, err)
		assert.Len(t, w.Samples, 2*22050, "source rate %d", rate)
	}
}

func TestDecoderWAVWithoutFFmpeg(t *testing.T) {
	dec := NewDecoder(nil, t.TempDir(), nil)
	data := wavBytes(t, sine(440, 0.25, 22050, 0.5))

	w, err := dec.Decode(context.Background(), data, 22050)
	require.NoError(t, err)
	assert.Equal(t, 22050, w.SampleRate)
	assert.Len(t, w.Samples, 22050/4)
	assert.Equal(t, 22050, dec.SampleRate(context.Background(), data))
}

func TestDecoderNonWAVWithoutFFmpeg(t *testing.T) {
	dir := t.TempDir()
	dec := NewDecoder(&Transcoder{}, dir, nil)

	_, err := dec.Decode(context.Background(), []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0}, 22050)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFFmpegNotFound))
	assert.Equal(t, 0, dec.SampleRate(context.Background(), []byte("ID3xxxx")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may survive a failed decode")
}

func TestDecoderFFmpegCleansUpOnFailure(t *testing.T) {
	tr := NewTranscoder("")
	if !tr.Available() {
		t.Skip("ffmpeg not installed")
	}
	dir := t.TempDir()
	dec := NewDecoder(tr, dir, nil)

	_, err := dec.Decode(context.Background(), []byte("ID3 definitely not an mp3 stream"), 22050)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecoderFFmpegDecodesWAV(t *testing.T) {
	tr := NewTranscoder("")
	if !tr.Available() {
		t.Skip("ffmpeg not installed")
	}
	src := sine(440, 0.5, 44100, 0.5)
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, os.WriteFile(path, wavBytes(t, src), 0o600))

	w, err := tr.DecodeFile(context.Background(), path, 22050)
	require.NoError(t, err)
	assert.Equal(t, 22050, w.SampleRate)
	assert.InDelta(t, 0.5, w.Duration(), 0.01)
	if tr.ffprobePath != "" {
		assert.Equal(t, 44100, tr.ProbeSampleRate(context.Background(), path))
	}
}

func TestExtractLastError(t *testing.T) {
	assert.Equal(t, "last line", ExtractLastError("first\n\nlast line\n\n"))
	assert.Equal(t, "", ExtractLastError("   "))
	long := string(bytes.Repeat([]byte("x"), 300))
	assert.Len(t, ExtractLastError(long), maxErrorLineLength+3)
}
