package session

import "darkroom/internal/adjust"

// SettingsModel owns the current adjustment vector. Every write path clamps,
// so the stored vector is always in range.
type SettingsModel struct {
	current adjust.Settings
}

func NewSettingsModel() *SettingsModel {
	return &SettingsModel{current: adjust.Defaults()}
}

// Get returns the current vector as an immutable snapshot.
func (m *SettingsModel) Get() adjust.Settings {
	return m.current
}

// Set stores one field, clamped to its range. Unknown fields are rejected.
func (m *SettingsModel) Set(field string, value float64) bool {
	spec, ok := adjust.FieldByName(field)
	if !ok {
		return false
	}
	spec.Apply(&m.current, value)
	return true
}

// ApplyPreset replaces the whole vector atomically. The snapshot is treated
// as opaque beyond per-field clamping.
func (m *SettingsModel) ApplyPreset(preset adjust.Settings) {
	m.current = preset.Clamped()
}

// Reset restores the neutral defaults.
func (m *SettingsModel) Reset() {
	m.ApplyPreset(adjust.Defaults())
}
