// Package audio identifies, decodes and resamples audio blobs into mono waveforms.
package audio

import (
	"bytes"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// Format is the container format inferred from content, never from a filename.
type Format string

const (
	FormatWebM    Format = "webm"
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatUnknown Format = "unknown"
)

// sniffLen is the header window inspected by DetectFormat.
const sniffLen = 12

var (
	ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}
	riffMagic = []byte("RIFF")
	waveMagic = []byte("WAVE")
	id3Magic  = []byte("ID3")
)

// DetectFormat classifies the first bytes of an audio blob. Rules are
// checked in order and the first match wins; anything else is FormatUnknown.
func DetectFormat(data []byte) Format {
	header := data
	if len(header) > sniffLen {
		header = header[:sniffLen]
	}

	switch {
	case bytes.HasPrefix(header, ebmlMagic):
		return FormatWebM
	case bytes.HasPrefix(header, riffMagic) && bytes.Contains(header, waveMagic):
		return FormatWAV
	case bytes.HasPrefix(header, id3Magic), isMPEGFrameSync(header):
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// DetectFormatFile sniffs the header of the file at path. Read failures
// yield FormatUnknown.
func DetectFormatFile(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown
	}
	return DetectFormat(header[:n])
}

// isMPEGFrameSync matches the MPEG audio frame headers FF FB, FF F3, FF F0 and FF F1.
func isMPEGFrameSync(header []byte) bool {
	if len(header) < 2 || header[0] != 0xFF {
		return false
	}
	switch header[1] {
	case 0xFB, 0xF3, 0xF0, 0xF1:
		return true
	}
	return false
}

// Suffix returns a file extension external tools can use as a demuxer hint.
func (f Format) Suffix() string {
	switch f {
	case FormatWebM:
		return ".webm"
	case FormatWAV:
		return ".wav"
	case FormatMP3:
		return ".mp3"
	default:
		return ".bin"
	}
}

// DescribeMIME reports the MIME type of data for diagnostics. It never
// feeds back into Format selection.
func DescribeMIME(data []byte) string {
	return mimetype.Detect(data).String()
}
