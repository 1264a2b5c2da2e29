package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrFFmpegNotFound is returned when a non-WAV blob needs transcoding but no ffmpeg binary is available.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// maxErrorLineLength caps the stderr excerpt attached to errors.
const maxErrorLineLength = 200

// Transcoder shells out to ffmpeg/ffprobe for containers the process cannot decode itself.
type Transcoder struct {
	ffmpegPath  string
	ffprobePath string
}

// NewTranscoder resolves ffmpeg (customPath, or PATH) and an ffprobe next to it.
func NewTranscoder(customPath string) *Transcoder {
	t := &Transcoder{ffmpegPath: ResolveFFmpegPath(customPath)}
	if t.ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(t.ffmpegPath), "ffprobe")
		if p, err := exec.LookPath(sibling); err == nil {
			t.ffprobePath = p
		}
	}
	if t.ffprobePath == "" {
		if p, err := exec.LookPath("ffprobe"); err == nil {
			t.ffprobePath = p
		}
	}
	return t
}

// ResolveFFmpegPath returns the path to the FFmpeg binary, or "" when none is found.
func ResolveFFmpegPath(customPath string) string {
	if customPath != "" {
		if _, err := exec.LookPath(customPath); err == nil {
			return customPath
		}
		return ""
	}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return ""
	}
	return path
}

// Available reports whether an ffmpeg binary was found.
func (t *Transcoder) Available() bool {
	return t != nil && t.ffmpegPath != ""
}

// DecodeFile transcodes the file at path to mono signed 16-bit PCM at sampleRate.
func (t *Transcoder) DecodeFile(ctx context.Context, path string, sampleRate int) (Waveform, error) {
	if !t.Available() {
		return Waveform{}, ErrFFmpegNotFound
	}

	args := []string{
		"-hide_banner", "-nostdin",
		"-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Waveform{}, fmt.Errorf("ffmpeg decode: %w: %s", err, ExtractLastError(stderr.String()))
	}

	return Waveform{Samples: pcm16ToFloat(stdout.Bytes()), SampleRate: sampleRate}, nil
}

// ProbeSampleRate asks ffprobe for the native rate of the first audio stream.
// It returns 0 when the rate cannot be determined.
func (t *Transcoder) ProbeSampleRate(ctx context.Context, path string) int {
	if t == nil || t.ffprobePath == "" {
		return 0
	}

	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	rate, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || rate <= 0 {
		return 0
	}
	return rate
}

// ExtractLastError extracts the last meaningful line from stderr output.
func ExtractLastError(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			if len(line) > maxErrorLineLength {
				return line[:maxErrorLineLength] + "..."
			}
			return line
		}
	}
	return ""
}
