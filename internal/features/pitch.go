package features

import "math"

// estimatePitch tracks spectral peaks in [pitchMinHz, pitchMaxHz) that rise
// above pitchThreshold of their frame's maximum, refines each with parabolic
// interpolation, and returns the mean of all positive estimates.
// Frames with no qualifying peak contribute nothing; no peaks at all yields 0.
func estimatePitch(spectra [][]float64, sampleRate int) float64 {
	var sum float64
	var count int

	for _, mag := range spectra {
		if len(mag) < 3 {
			continue
		}
		frameMax := 0.0
		for _, v := range mag {
			if v > frameMax {
				frameMax = v
			}
		}
		ref := pitchThreshold * frameMax

		for k := 1; k < len(mag)-1; k++ {
			freq := binFrequency(k, sampleRate)
			if freq < pitchMinHz || freq >= pitchMaxHz {
				continue
			}
			if mag[k] <= ref || mag[k] <= mag[k-1] || mag[k] < mag[k+1] {
				continue
			}

			avg := 0.5 * (mag[k+1] - mag[k-1])
			curvature := 2*mag[k] - mag[k+1] - mag[k-1]
			if math.Abs(curvature) < 1e-12 {
				curvature = 1
			}
			pitch := (float64(k) + avg/curvature) * float64(sampleRate) / float64(frameLength)
			if pitch > 0 {
				sum += pitch
				count++
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
