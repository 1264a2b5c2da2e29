package similarity

import "strings"

// SilenceThreshold is the RMS energy below which a recording may be silent.
const SilenceThreshold = 0.01

// IsSilent reports whether a candidate recording carries no usable signal:
// its energy is below SilenceThreshold and nothing was transcribed.
func IsSilent(rms float64, transcript string) bool {
	return rms < SilenceThreshold && strings.TrimSpace(transcript) == ""
}
