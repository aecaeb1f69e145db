// Package tts defines the text-to-speech capability interface backing
// the optional /audio HTTP route. No text-to-speech vendor SDK is
// available in the dependency pack this service was built from, so the
// only concrete provider is the disabled no-op; the interface exists so
// a real adapter can be dropped in later without touching callers.
package tts

import "context"

// Provider synthesizes narration audio from a script.
type Provider interface {
	// Synthesize returns encoded audio bytes for script, narrated in
	// voice. Returns nil audio, no error, when synthesis is unavailable.
	Synthesize(ctx context.Context, script, voice string) ([]byte, error)
}

// Disabled is the no-op provider returned when no TTS backend is
// configured.
type Disabled struct{}

// Synthesize always returns nil audio.
func (Disabled) Synthesize(ctx context.Context, script, voice string) ([]byte, error) {
	return nil, nil
}
