package commands

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceanalysis/internal/audio"
	"voiceanalysis/internal/features"
)

func writeTone(t *testing.T, name string, freq float64) string {
	t.Helper()
	samples := make([]float64, features.SampleRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/features.SampleRate)
	}
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, audio.WriteWAV(f, audio.Waveform{Samples: samples, SampleRate: features.SampleRate}))
	require.NoError(t, f.Close())
	return path
}

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	outputJSON, verbose = false, false
	compareExpected, compareContext, compareLanguage, compareTranscribe = "", "practice", "en", false
	t.Setenv("STT_PROVIDER", "none")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestSniff(t *testing.T) {
	path := writeTone(t, "tone.wav", 440)

	var reports []sniffReport
	require.NoError(t, json.Unmarshal(run(t, "--json", "sniff", path), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, audio.FormatWAV, reports[0].Format)
	assert.Equal(t, path, reports[0].File)
	assert.Positive(t, reports[0].Bytes)
}

func TestFeaturesYAML(t *testing.T) {
	path := writeTone(t, "tone.wav", 440)

	var report struct {
		File     string `yaml:"file"`
		Features struct {
			Duration  float64 `yaml:"duration"`
			PitchMean float64 `yaml:"pitch_mean"`
		} `yaml:"features"`
	}
	require.NoError(t, yaml.Unmarshal(run(t, "features", path), &report))
	assert.Equal(t, path, report.File)
	assert.InDelta(t, 1.0, report.Features.Duration, 1e-9)
	assert.InDelta(t, 440, report.Features.PitchMean, 40)
}

func TestCompareIdenticalOffline(t *testing.T) {
	ref := writeTone(t, "ref.wav", 440)

	var report compareReport
	require.NoError(t, json.Unmarshal(run(t, "--json", "compare", ref, ref), &report))
	assert.InDelta(t, 0.95, report.Similarity.Overall, 1e-9)
	assert.Empty(t, report.Transcription)
	assert.Equal(t, "offline", report.Provider)
	assert.Equal(t, "practice", report.Context)
	assert.Equal(t, audio.FormatWAV, report.CandidateFormat)
	// empty transcript matches an empty expectation
	assert.True(t, report.IsCorrect)
}

func TestCompareBattle(t *testing.T) {
	ref := writeTone(t, "ref.wav", 440)
	cand := writeTone(t, "cand.wav", 440)

	var report compareReport
	require.NoError(t, json.Unmarshal(run(t, "--json", "compare", ref, cand, "--context", "battle", "--expected", "la"), &report))
	assert.Equal(t, "battle", report.Context)
	assert.InDelta(t, 0.95, report.Similarity.Overall, 1e-9)
	assert.True(t, report.IsCorrect)
}

func TestCompareMissingFile(t *testing.T) {
	outputJSON = false
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"compare", "/nonexistent/a.wav", "/nonexistent/b.wav"})
	assert.Error(t, rootCmd.Execute())
}
