package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

var (
	// ErrInvalidWAV is returned when the RIFF/WAVE header cannot be parsed.
	ErrInvalidWAV = errors.New("invalid wav data")
	// ErrUnsupportedWAV marks WAV payloads the in-process decoder does not
	// handle (float, 8-bit, extensible); those go through ffmpeg instead.
	ErrUnsupportedWAV = errors.New("unsupported wav encoding")
)

// DecodeWAV decodes integer PCM WAV data into a mono waveform at its native rate.
// Multi-channel audio is averaged down to one channel.
func DecodeWAV(data []byte) (Waveform, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return Waveform{}, ErrInvalidWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return Waveform{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedWAV, d.WavAudioFormat)
	}
	switch d.BitDepth {
	case 16, 24, 32:
	default:
		return Waveform{}, fmt.Errorf("%w: %d-bit", ErrUnsupportedWAV, d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("read pcm: %w", err)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		channels = 1
	}
	scale := math.Exp2(float64(d.BitDepth - 1))
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}

	return Waveform{Samples: samples, SampleRate: int(d.SampleRate)}, nil
}

// WAVSampleRate reads the sample rate from a WAV header, or 0 if unreadable.
func WAVSampleRate(data []byte) int {
	d := wav.NewDecoder(bytes.NewReader(data))
	d.ReadInfo()
	if d.Err() != nil || d.SampleRate == 0 {
		return 0
	}
	return int(d.SampleRate)
}

// WriteWAV encodes w as 16-bit mono PCM WAV.
func WriteWAV(out io.WriteSeeker, w Waveform) error {
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           make([]int, len(w.Samples)),
		SourceBitDepth: 16,
	}
	for i, s := range w.Samples {
		v := math.Round(s * 32767.0)
		buf.Data[i] = int(math.Max(-32768, math.Min(32767, v)))
	}

	enc := wav.NewEncoder(out, w.SampleRate, 16, 1, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
