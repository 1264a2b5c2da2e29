package features

import (
	"math"
)

const (
	maxTempo = 320.0
	// tempo prior: log-normal around DefaultTempo with one octave of spread
	tempoPriorStd = 1.0
	// autocorrelation window, in seconds of onset envelope
	tempoACSeconds = 8.0
	minOnsetFrames = 4
)

// onsetEnvelope is the mean positive first difference of the log-mel
// spectrogram across bands, one value per frame transition.
func onsetEnvelope(melDB [][]float64) []float64 {
	if len(melDB) < 2 {
		return nil
	}
	env := make([]float64, len(melDB)-1)
	for t := 1; t < len(melDB); t++ {
		var sum float64
		for m := range melDB[t] {
			if d := melDB[t][m] - melDB[t-1][m]; d > 0 {
				sum += d
			}
		}
		env[t-1] = sum / float64(len(melDB[t]))
	}
	return env
}

// estimateTempo returns the dominant beat rate in BPM from the onset
// autocorrelation weighted by a prior centred on DefaultTempo.
// It never fails. A signal with no onsets at all has tempo 0; too little
// signal or no periodic onsets yields DefaultTempo.
func estimateTempo(melDB [][]float64, sampleRate int) float64 {
	env := onsetEnvelope(melDB)
	if len(env) < minOnsetFrames {
		return DefaultTempo
	}
	if !hasOnset(env) {
		return 0
	}

	framesPerSecond := float64(sampleRate) / float64(hopLength)
	maxLag := int(tempoACSeconds * framesPerSecond)
	if maxLag > len(env)-1 {
		maxLag = len(env) - 1
	}

	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))
	centered := make([]float64, len(env))
	var energy float64
	for i, v := range env {
		centered[i] = v - mean
		energy += centered[i] * centered[i]
	}
	if energy <= 0 {
		return DefaultTempo
	}

	bestScore := 0.0
	bestBPM := 0.0
	for lag := 1; lag <= maxLag; lag++ {
		bpm := 60.0 * framesPerSecond / float64(lag)
		if bpm > maxTempo {
			continue
		}
		var ac float64
		for i := 0; i+lag < len(centered); i++ {
			ac += centered[i] * centered[i+lag]
		}
		ac /= energy

		octaves := math.Log2(bpm / DefaultTempo)
		prior := math.Exp(-0.5 * (octaves / tempoPriorStd) * (octaves / tempoPriorStd))
		if score := ac * prior; score > bestScore {
			bestScore = score
			bestBPM = bpm
		}
	}

	if bestBPM <= 0 || math.IsNaN(bestBPM) || math.IsInf(bestBPM, 0) {
		return DefaultTempo
	}
	return bestBPM
}

func hasOnset(env []float64) bool {
	for _, v := range env {
		if v > 0 {
			return true
		}
	}
	return false
}
