package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27.0

const (
	dbAmin = 1e-10
	dbTop  = 80.0
)

func hzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSp
}

func melToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return melFSp * mel
}

// melFilterBank builds numMels Slaney-normalised triangular filters over
// 0 Hz .. sampleRate/2, each spanning frameLength/2+1 FFT bins.
func melFilterBank(sampleRate int) [][]float64 {
	bins := frameLength/2 + 1
	fmax := float64(sampleRate) / 2

	melPts := make([]float64, numMels+2)
	floats.Span(melPts, hzToMel(0), hzToMel(fmax))
	hzPts := make([]float64, len(melPts))
	for i, m := range melPts {
		hzPts[i] = melToHz(m)
	}

	fftFreqs := make([]float64, bins)
	floats.Span(fftFreqs, 0, fmax)

	bank := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		lowerW := hzPts[m+1] - hzPts[m]
		upperW := hzPts[m+2] - hzPts[m+1]
		enorm := 2.0 / (hzPts[m+2] - hzPts[m])

		row := make([]float64, bins)
		for k, f := range fftFreqs {
			lower := (f - hzPts[m]) / lowerW
			upper := (hzPts[m+2] - f) / upperW
			if w := math.Min(lower, upper); w > 0 {
				row[k] = w * enorm
			}
		}
		bank[m] = row
	}
	return bank
}

// melPowerDB projects a magnitude spectrogram onto the mel bank and converts
// the power to decibels, clamped to dbTop below the global peak.
func melPowerDB(spectra [][]float64, bank [][]float64) [][]float64 {
	out := make([][]float64, len(spectra))
	peak := math.Inf(-1)
	power := make([]float64, 0)

	for t, mag := range spectra {
		power = power[:0]
		for _, v := range mag {
			power = append(power, v*v)
		}
		row := make([]float64, len(bank))
		for m, filter := range bank {
			db := 10 * math.Log10(math.Max(dbAmin, floats.Dot(filter, power)))
			row[m] = db
			if db > peak {
				peak = db
			}
		}
		out[t] = row
	}

	floor := peak - dbTop
	for _, row := range out {
		for m, v := range row {
			if v < floor {
				row[m] = floor
			}
		}
	}
	return out
}

// dctOrtho returns the first n coefficients of the orthonormal DCT-II of x.
func dctOrtho(x []float64, n int) []float64 {
	size := float64(len(x))
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i, v := range x {
			sum += v * math.Cos(math.Pi/size*(float64(i)+0.5)*float64(k))
		}
		scale := math.Sqrt(2 / size)
		if k == 0 {
			scale = math.Sqrt(1 / size)
		}
		out[k] = sum * scale
	}
	return out
}
