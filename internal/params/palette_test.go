package params

import (
	"math"
	"testing"
)

func TestWarmSpectrumDecodesToAxes(t *testing.T) {
	p, err := NamedLegacyPalette("warm-spectrum")
	if err != nil {
		t.Fatalf("NamedLegacyPalette failed: %v", err)
	}

	hue, spectrum, chroma := p.ToAxes()
	if math.Abs(hue-22.0/360.0) > 1e-9 {
		t.Errorf("hue = %v, want %v", hue, 22.0/360.0)
	}
	if math.Abs(spectrum-(83.0-5.0)/355.0) > 1e-9 {
		t.Errorf("spectrum = %v, want %v", spectrum, (83.0-5.0)/355.0)
	}
	if math.Abs(chroma-(0.959-0.05)/0.95) > 1e-9 {
		t.Errorf("chroma = %v, want %v", chroma, (0.959-0.05)/0.95)
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	tests := []LegacyPalette{
		{BaseHue: 22, HueRange: 83, Saturation: 0.959},
		{BaseHue: 0, HueRange: 5, Saturation: 0.05},
		{BaseHue: 360, HueRange: 360, Saturation: 1},
	}
	for _, orig := range tests {
		hue, spectrum, chroma := orig.ToAxes()
		back := LegacyFromAxes(hue, spectrum, chroma)
		if math.Abs(back.BaseHue-orig.BaseHue) > 1e-9 ||
			math.Abs(back.HueRange-orig.HueRange) > 1e-9 ||
			math.Abs(back.Saturation-orig.Saturation) > 1e-9 {
			t.Errorf("round trip %+v -> %+v", orig, back)
		}
	}
}

func TestUnknownPaletteName(t *testing.T) {
	if _, err := NamedLegacyPalette("sepia-dream"); err == nil {
		t.Error("unknown palette name must fail")
	}
}

func TestHSLPrimaries(t *testing.T) {
	tests := []struct {
		name string
		hue  float64
		want RGB
	}{
		{"red", 0, RGB{1, 0, 0}},
		{"green", 120, RGB{0, 1, 0}},
		{"blue", 240, RGB{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HSL(tt.hue, 1, 0.5)
			if math.Abs(got.R-tt.want.R) > 1e-9 ||
				math.Abs(got.G-tt.want.G) > 1e-9 ||
				math.Abs(got.B-tt.want.B) > 1e-9 {
				t.Errorf("HSL(%v,1,0.5) = %+v, want %+v", tt.hue, got, tt.want)
			}
		})
	}
}

func TestHSLWrapsHue(t *testing.T) {
	a := HSL(30, 0.8, 0.5)
	b := HSL(390, 0.8, 0.5)
	c := HSL(-330, 0.8, 0.5)
	if a != b || a != c {
		t.Errorf("hue wrap mismatch: %+v %+v %+v", a, b, c)
	}
}

func TestPalettePickInRange(t *testing.T) {
	p := Palette{BaseHueDeg: 40, HueRangeDeg: 120, Saturation: 0.9, LightnessBase: 0.25, LightnessRange: 0.4}
	for _, dist := range []float64{0, 0.5, 1.5, 3} {
		c := p.Pick(dist, 1.2, 0.5, -1)
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Fatalf("Pick(dist=%v) component out of range: %+v", dist, c)
			}
		}
	}
}

func TestPaletteFamilyHuePinsPick(t *testing.T) {
	p := Palette{BaseHueDeg: 40, HueRangeDeg: 120, Saturation: 0.9, LightnessBase: 0.25, LightnessRange: 0.4}
	a := p.Pick(1, 1.2, 0, 200)
	b := p.Pick(2, 1.2, 0, 200)
	// Same family hue at different distances still differs in lightness,
	// but both derive from hue 200: the dominant channel must match.
	if (a.B < a.R) != (b.B < b.R) {
		t.Errorf("family hue not pinned: %+v vs %+v", a, b)
	}
}
