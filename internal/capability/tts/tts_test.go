package tts

import "testing"

func TestDisabledProvider(t *testing.T) {
	var p Provider = Disabled{}
	audio, err := p.Synthesize(t.Context(), "a narration script", "default")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if audio != nil {
		t.Errorf("expected nil audio, got %v", audio)
	}
}
