package stt

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no transcription backend could be initialised.
var ErrUnavailable = errors.New("transcription service not available")

// Unavailable stands in for a provider whose initialisation failed.
type Unavailable struct {
	Reason string
}

// Name returns the provider name
func (u *Unavailable) Name() string {
	return "unavailable"
}

// Transcribe always fails with ErrUnavailable.
func (u *Unavailable) Transcribe(_ context.Context, _ *Request) (*Result, error) {
	if u.Reason == "" {
		return nil, ErrUnavailable
	}
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}

// Available reports whether p can serve transcriptions.
func Available(p Provider) bool {
	if p == nil {
		return false
	}
	_, unavailable := p.(*Unavailable)
	return !unavailable
}
