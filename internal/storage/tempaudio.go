package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// TempAudio is an audio blob spooled to disk for tools that only read files
// (ffmpeg, ffprobe). Callers must defer Release right after a successful Save.
type TempAudio struct {
	Path string
	Size int64

	once sync.Once
	err  error
}

// SaveAudio writes data to a uniquely named file under dir. suffix should
// include the dot (".webm"); it only helps external tools guess the demuxer.
func SaveAudio(dir string, data []byte, suffix string) (*TempAudio, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	dst := filepath.Join(dir, "rec_"+uuid.NewString()+suffix)
	if err := writeFile(dst, data); err != nil {
		// writeFile may leave a partial file behind
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to save audio: %w", err)
	}

	return &TempAudio{Path: dst, Size: int64(len(data))}, nil
}

// Release removes the file. It is idempotent and safe on a nil receiver.
func (t *TempAudio) Release() error {
	if t == nil {
		return nil
	}
	t.once.Do(func() {
		if err := os.Remove(t.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.err = err
		}
	})
	return t.err
}

/* helper */
func writeFile(dst string, data []byte) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	n, err := out.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
