package stt

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript  string  // The transcribed text, empty when no speech was recognised
	Confidence  float64 // Confidence score (0.0-1.0), 0 if not provided
	Provider    string  // The provider used (e.g., "google", "openai")
	RawResponse string  // Raw response from the provider (for debugging/logging)
}

func emptyResult(provider, raw string) *Result {
	return &Result{Provider: provider, RawResponse: raw}
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
