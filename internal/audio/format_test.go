package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"webm ebml", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81, 0x01, 0x42, 0xF7, 0x81}, FormatWebM},
		{"wav riff", []byte("RIFF\x24\x08\x00\x00WAVEfmt "), FormatWAV},
		{"riff without wave", []byte("RIFF\x24\x08\x00\x00AVI LIST"), FormatUnknown},
		{"wave outside header window", []byte("RIFF\x24\x08\x00\x00\x00\x00\x00\x00WAVE"), FormatUnknown},
		{"id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00"), FormatMP3},
		{"mpeg fffb", []byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3},
		{"mpeg fff3", []byte{0xFF, 0xF3, 0x00}, FormatMP3},
		{"adts fff0", []byte{0xFF, 0xF0}, FormatMP3},
		{"adts fff1", []byte{0xFF, 0xF1, 0x50, 0x80}, FormatMP3},
		{"ff other", []byte{0xFF, 0xD8, 0xFF, 0xE0}, FormatUnknown},
		{"ogg", []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00"), FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"single byte", []byte{0xFF}, FormatUnknown},
		{"text", []byte("hello world, not audio"), FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data))
		})
	}
}

func TestDetectFormatIgnoresFileExtension(t *testing.T) {
	dir := t.TempDir()
	// webm content behind a misleading .wav name
	path := filepath.Join(dir, "recording.wav")
	require.NoError(t, os.WriteFile(path, []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3}, 0o600))
	assert.Equal(t, FormatWebM, DetectFormatFile(path))

	short := filepath.Join(dir, "short.mp3")
	require.NoError(t, os.WriteFile(short, []byte("ID3"), 0o600))
	assert.Equal(t, FormatMP3, DetectFormatFile(short))
}

func TestDetectFormatFileMissing(t *testing.T) {
	assert.Equal(t, FormatUnknown, DetectFormatFile(filepath.Join(t.TempDir(), "nope")))
}

func TestFormatSuffix(t *testing.T) {
	assert.Equal(t, ".webm", FormatWebM.Suffix())
	assert.Equal(t, ".wav", FormatWAV.Suffix())
	assert.Equal(t, ".mp3", FormatMP3.Suffix())
	assert.Equal(t, ".bin", FormatUnknown.Suffix())
}

func TestDescribeMIME(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", DescribeMIME([]byte("plain text payload")))
	assert.NotEmpty(t, DescribeMIME([]byte{0x00, 0x01}))
}
