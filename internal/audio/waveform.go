package audio

// Waveform is a mono sequence of samples in [-1, 1] at SampleRate Hz.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Empty reports whether the waveform has no samples.
func (w Waveform) Empty() bool {
	return len(w.Samples) == 0
}

// pcm16ToFloat converts little-endian signed 16-bit mono PCM to float samples.
func pcm16ToFloat(pcm []byte) []float64 {
	n := len(pcm) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float64(s) / 32768.0
	}
	return samples
}
