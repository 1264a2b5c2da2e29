package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voiceanalysis/internal/storage"
)

// Decoder turns raw audio bytes into mono waveforms. WAV is decoded
// in-process; every other container is spooled to a temp file and
// transcoded by ffmpeg. The temp file is released on every return path.
type Decoder struct {
	transcoder *Transcoder
	tempDir    string
	logger     *slog.Logger
}

// NewDecoder creates a decoder. transcoder may be nil, in which case only WAV is supported.
func NewDecoder(transcoder *Transcoder, tempDir string, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{
		transcoder: transcoder,
		tempDir:    tempDir,
		logger:     logger.With("component", "decoder"),
	}
}

// Decode returns data as a mono waveform at sampleRate.
func (d *Decoder) Decode(ctx context.Context, data []byte, sampleRate int) (Waveform, error) {
	format := DetectFormat(data)

	if format == FormatWAV {
		w, err := DecodeWAV(data)
		if err == nil {
			return Resample(w, sampleRate)
		}
		if !errors.Is(err, ErrUnsupportedWAV) || !d.transcoder.Available() {
			return Waveform{}, err
		}
		d.logger.Debug("wav needs transcoding", "error", err)
	}
	if !d.transcoder.Available() {
		return Waveform{}, fmt.Errorf("decode %s audio: %w", format, ErrFFmpegNotFound)
	}

	tmp, err := storage.SaveAudio(d.tempDir, data, format.Suffix())
	if err != nil {
		return Waveform{}, err
	}
	defer d.release(tmp)

	w, err := d.transcoder.DecodeFile(ctx, tmp.Path, sampleRate)
	if err != nil {
		return Waveform{}, fmt.Errorf("decode %s audio: %w", format, err)
	}
	d.logger.Debug("decoded audio", "format", format, "samples", len(w.Samples), "sample_rate", w.SampleRate)
	return w, nil
}

// SampleRate returns the native sample rate of data, or 0 when unknown.
func (d *Decoder) SampleRate(ctx context.Context, data []byte) int {
	format := DetectFormat(data)
	if format == FormatWAV {
		if rate := WAVSampleRate(data); rate > 0 {
			return rate
		}
	}
	if d.transcoder == nil || d.transcoder.ffprobePath == "" {
		return 0
	}

	tmp, err := storage.SaveAudio(d.tempDir, data, format.Suffix())
	if err != nil {
		d.logger.Warn("failed to spool audio for probing", "error", err)
		return 0
	}
	defer d.release(tmp)

	return d.transcoder.ProbeSampleRate(ctx, tmp.Path)
}

func (d *Decoder) release(tmp *storage.TempAudio) {
	if err := tmp.Release(); err != nil {
		d.logger.Warn("failed to clean up temporary audio", "path", tmp.Path, "error", err)
	}
}
