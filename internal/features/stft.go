package features

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// hannWindow returns a periodic Hann window, the FFT-friendly variant.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// padCenter pads samples by n/2 on both sides so frame t is centred on t*hop.
// edge repeats the boundary sample; otherwise zeros are used.
func padCenter(samples []float64, n int, edge bool) []float64 {
	pad := n / 2
	out := make([]float64, len(samples)+2*pad)
	copy(out[pad:], samples)
	if edge && len(samples) > 0 {
		first, last := samples[0], samples[len(samples)-1]
		for i := 0; i < pad; i++ {
			out[i] = first
			out[len(out)-1-i] = last
		}
	}
	return out
}

// numFrames is the frame count of a centred analysis over n samples.
func numFrames(n int) int {
	return 1 + n/hopLength
}

// frame returns the t-th frameLength window of an already padded signal.
func frame(padded []float64, t int) []float64 {
	start := t * hopLength
	return padded[start : start+frameLength]
}

// magnitudeSpectrogram returns |STFT| as [frame][bin] with frameLength/2+1 bins.
// The FFT plan is allocated per call; fourier.FFT is not safe for concurrent use.
func magnitudeSpectrogram(samples []float64, window []float64) [][]float64 {
	padded := padCenter(samples, frameLength, false)
	frames := numFrames(len(samples))
	bins := frameLength/2 + 1

	fft := fourier.NewFFT(frameLength)
	buf := make([]float64, frameLength)
	coeffs := make([]complex128, bins)

	spectra := make([][]float64, frames)
	for t := 0; t < frames; t++ {
		seg := frame(padded, t)
		for i := range buf {
			buf[i] = seg[i] * window[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)

		mag := make([]float64, bins)
		for k, c := range coeffs {
			mag[k] = cmplx.Abs(c)
		}
		spectra[t] = mag
	}
	return spectra
}

// binFrequency returns the centre frequency of FFT bin k.
func binFrequency(k, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(frameLength)
}
