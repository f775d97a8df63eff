package session

import (
	"testing"

	"darkroom/internal/adjust"
)

func TestSettingsModelSetClamps(t *testing.T) {
	m := NewSettingsModel()

	if !m.Set("exposure", 9.9) {
		t.Fatal("known field rejected")
	}
	if got := m.Get().Exposure; got != 2.0 {
		t.Fatalf("exposure stored as %v, want 2.0", got)
	}

	if m.Set("saturation", 1.0) {
		t.Fatal("unknown field accepted")
	}
}

func TestApplyPresetIsAtomicAndClamped(t *testing.T) {
	m := NewSettingsModel()
	m.Set("exposure", 1.5)

	preset := adjust.Settings{
		Exposure: 1.15, Warmth: 0.12, Contrast: 1.20, Shadows: 0.35,
		Highlights: 0.3, Clarity: 0.25, Vibrance: 0.20, Vignette: 0.15,
		Sharpness: 99, // out of range on purpose
	}
	m.ApplyPreset(preset)

	got := m.Get()
	if got.Exposure != 1.15 || got.Warmth != 0.12 {
		t.Fatalf("preset not applied: %+v", got)
	}
	if got.Sharpness != 3.0 {
		t.Fatalf("preset field not clamped: sharpness = %v", got.Sharpness)
	}

	m.Reset()
	if m.Get() != adjust.Defaults() {
		t.Fatalf("reset did not restore defaults: %+v", m.Get())
	}
}
