package stt

import "context"

// Provider defines the interface for speech-to-text providers
type Provider interface {
	// Transcribe recognises speech in req.Audio. An empty transcript is a
	// valid result, not an error.
	Transcribe(ctx context.Context, req *Request) (*Result, error)

	// Name returns the name of the provider (e.g., "google", "openai")
	Name() string
}
