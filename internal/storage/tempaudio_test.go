package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAudioAndRelease(t *testing.T) {
	dir := t.TempDir()
	data := []byte("RIFF\x00\x00\x00\x00WAVE")

	tmp, err := SaveAudio(dir, data, ".wav")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), tmp.Size)
	assert.True(t, strings.HasSuffix(tmp.Path, ".wav"))
	assert.Equal(t, dir, filepath.Dir(tmp.Path))

	got, err := os.ReadFile(tmp.Path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, tmp.Release())
	_, err = os.Stat(tmp.Path)
	assert.True(t, os.IsNotExist(err))

	// second release is a no-op
	require.NoError(t, tmp.Release())
}

func TestSaveAudioUniqueNames(t *testing.T) {
	dir := t.TempDir()
	a, err := SaveAudio(dir, []byte{1}, ".mp3")
	require.NoError(t, err)
	defer a.Release()
	b, err := SaveAudio(dir, []byte{2}, ".mp3")
	require.NoError(t, err)
	defer b.Release()
	assert.NotEqual(t, a.Path, b.Path)
}

func TestSaveAudioCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "spool")
	tmp, err := SaveAudio(dir, []byte{0}, "")
	require.NoError(t, err)
	defer tmp.Release()
	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestReleaseNil(t *testing.T) {
	var tmp *TempAudio
	assert.NoError(t, tmp.Release())
}
