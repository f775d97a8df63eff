package adjust

import (
	"net/url"
	"strconv"
)

// Settings is the full adjustment vector attached to every render request.
// Values outside a field's range are clamped before they are sent or stored.
type Settings struct {
	Exposure   float64 `json:"exposure"`
	Warmth     float64 `json:"warmth"`
	Contrast   float64 `json:"contrast"`
	Shadows    float64 `json:"shadows"`
	Highlights float64 `json:"highlights"`
	Clarity    float64 `json:"clarity"`
	Vibrance   float64 `json:"vibrance"`
	Vignette   float64 `json:"vignette"`
	Sharpness  float64 `json:"sharpness"`
}

// FieldSpec describes one adjustable parameter: its wire name, valid range,
// neutral default, and the slider step the UI uses.
type FieldSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Step    float64

	get func(Settings) float64
	set func(*Settings, float64)
}

// Value reads the field from a settings vector.
func (f FieldSpec) Value(s Settings) float64 {
	return f.get(s)
}

// Apply writes the field into a settings vector, clamped to [Min, Max].
func (f FieldSpec) Apply(s *Settings, v float64) {
	f.set(s, clamp(v, f.Min, f.Max))
}

// Fields enumerates all adjustable parameters in display order.
var Fields = []FieldSpec{
	{Name: "exposure", Min: 0.5, Max: 2.0, Default: 1.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Exposure },
		set: func(s *Settings, v float64) { s.Exposure = v }},
	{Name: "warmth", Min: -0.5, Max: 0.5, Default: 0.0, Step: 0.02,
		get: func(s Settings) float64 { return s.Warmth },
		set: func(s *Settings, v float64) { s.Warmth = v }},
	{Name: "contrast", Min: 0.5, Max: 2.0, Default: 1.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Contrast },
		set: func(s *Settings, v float64) { s.Contrast = v }},
	{Name: "shadows", Min: 0.0, Max: 1.0, Default: 0.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Shadows },
		set: func(s *Settings, v float64) { s.Shadows = v }},
	{Name: "highlights", Min: 0.0, Max: 1.0, Default: 0.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Highlights },
		set: func(s *Settings, v float64) { s.Highlights = v }},
	{Name: "clarity", Min: -1.0, Max: 1.0, Default: 0.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Clarity },
		set: func(s *Settings, v float64) { s.Clarity = v }},
	{Name: "vibrance", Min: -1.0, Max: 1.0, Default: 0.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Vibrance },
		set: func(s *Settings, v float64) { s.Vibrance = v }},
	{Name: "vignette", Min: 0.0, Max: 1.0, Default: 0.0, Step: 0.05,
		get: func(s Settings) float64 { return s.Vignette },
		set: func(s *Settings, v float64) { s.Vignette = v }},
	{Name: "sharpness", Min: 0.5, Max: 3.0, Default: 1.0, Step: 0.1,
		get: func(s Settings) float64 { return s.Sharpness },
		set: func(s *Settings, v float64) { s.Sharpness = v }},
}

// FieldByName looks up a field spec by its wire name.
func FieldByName(name string) (FieldSpec, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Defaults returns the neutral settings vector.
func Defaults() Settings {
	var s Settings
	for _, f := range Fields {
		f.set(&s, f.Default)
	}
	return s
}

// Clamped returns a copy with every field forced into its valid range.
func (s Settings) Clamped() Settings {
	out := s
	for _, f := range Fields {
		f.set(&out, clamp(f.get(s), f.Min, f.Max))
	}
	return out
}

// Query encodes the vector as render-request query parameters.
func (s Settings) Query() url.Values {
	c := s.Clamped()
	values := url.Values{}
	for _, f := range Fields {
		values.Set(f.Name, strconv.FormatFloat(f.get(c), 'f', -1, 64))
	}
	return values
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
