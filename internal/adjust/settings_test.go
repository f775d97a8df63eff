package adjust

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	want := Settings{
		Exposure:  1.0,
		Contrast:  1.0,
		Sharpness: 1.0,
	}
	if s != want {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestApplyClampsToRange(t *testing.T) {
	cases := []struct {
		field string
		in    float64
		want  float64
	}{
		{"exposure", 9.0, 2.0},
		{"exposure", 0.0, 0.5},
		{"warmth", -3.0, -0.5},
		{"warmth", 0.25, 0.25},
		{"shadows", -0.1, 0.0},
		{"clarity", 1.5, 1.0},
		{"sharpness", 100, 3.0},
	}

	for _, tc := range cases {
		f, ok := FieldByName(tc.field)
		if !ok {
			t.Fatalf("unknown field %q", tc.field)
		}
		s := Defaults()
		f.Apply(&s, tc.in)
		if got := f.Value(s); got != tc.want {
			t.Errorf("%s: Apply(%v) = %v, want %v", tc.field, tc.in, got, tc.want)
		}
	}
}

func TestClampedCoversEveryField(t *testing.T) {
	s := Settings{
		Exposure:   99,
		Warmth:     99,
		Contrast:   99,
		Shadows:    99,
		Highlights: 99,
		Clarity:    99,
		Vibrance:   99,
		Vignette:   99,
		Sharpness:  99,
	}

	c := s.Clamped()
	for _, f := range Fields {
		if got := f.Value(c); got != f.Max {
			t.Errorf("%s: clamped to %v, want max %v", f.Name, got, f.Max)
		}
	}
}

func TestQueryEncodesAllFields(t *testing.T) {
	s := Defaults()
	f, _ := FieldByName("exposure")
	f.Apply(&s, 1.5)

	q := s.Query()
	if len(q) != len(Fields) {
		t.Fatalf("expected %d params, got %d", len(Fields), len(q))
	}
	if got := q.Get("exposure"); got != "1.5" {
		t.Errorf("exposure = %q, want 1.5", got)
	}
	if got := q.Get("warmth"); got != "0" {
		t.Errorf("warmth = %q, want 0", got)
	}
}

func TestFieldByNameUnknown(t *testing.T) {
	if _, ok := FieldByName("saturation"); ok {
		t.Fatal("expected lookup miss for unknown field")
	}
}
