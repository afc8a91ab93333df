package ease

import (
	"math"
	"testing"
)

func TestControlLerp(t *testing.T) {
	tests := []struct {
		name         string
		t            float64
		lo, mid, hi  float64
		expected     float64
	}{
		{"at zero", 0, 0.35, 1, 5.5, 0.35},
		{"at mid", 0.5, 0.35, 1, 5.5, 1},
		{"at one", 1, 0.35, 1, 5.5, 5.5},
		{"quarter", 0.25, 0, 1, 2, 0.5},
		{"three quarters", 0.75, 0, 1, 3, 2},
		{"clamped below", -1, 0.2, 0.5, 0.9, 0.2},
		{"clamped above", 2, 0.2, 0.5, 0.9, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ControlLerp(tt.t, tt.lo, tt.mid, tt.hi)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("ControlLerp(%v) = %v, want %v", tt.t, got, tt.expected)
			}
		})
	}
}

func TestWarpSegmentTFixedPoints(t *testing.T) {
	for _, strength := range []float64{0, 0.35, 1} {
		if got := WarpSegmentT(0, strength); got != 0 {
			t.Errorf("WarpSegmentT(0, %v) = %v", strength, got)
		}
		if got := WarpSegmentT(1, strength); got != 1 {
			t.Errorf("WarpSegmentT(1, %v) = %v", strength, got)
		}
		if got := WarpSegmentT(0.5, strength); math.Abs(got-0.5) > 1e-12 {
			t.Errorf("WarpSegmentT(0.5, %v) = %v, want 0.5", strength, got)
		}
	}
}

func TestEasingEndpointsAndMonotonicity(t *testing.T) {
	for _, e := range []Easing{EaseLinear, EaseIn, EaseOut, EaseInOut} {
		t.Run(string(e), func(t *testing.T) {
			if got := e.Apply(0); got != 0 {
				t.Errorf("Apply(0) = %v", got)
			}
			if got := e.Apply(1); math.Abs(got-1) > 1e-12 {
				t.Errorf("Apply(1) = %v", got)
			}
			prev := 0.0
			for i := 1; i <= 100; i++ {
				v := e.Apply(float64(i) / 100)
				if v < prev {
					t.Fatalf("not monotone at t=%v: %v < %v", float64(i)/100, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestEasingMidpoints(t *testing.T) {
	if got := EaseLinear.Apply(0.5); got != 0.5 {
		t.Errorf("linear midpoint = %v", got)
	}
	if got := EaseIn.Apply(0.5); got >= 0.5 {
		t.Errorf("ease-in midpoint = %v, want < 0.5", got)
	}
	if got := EaseOut.Apply(0.5); got <= 0.5 {
		t.Errorf("ease-out midpoint = %v, want > 0.5", got)
	}
	if got := EaseInOut.Apply(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("ease-in-out midpoint = %v, want 0.5", got)
	}
}

func TestUnknownEasingFallsBackToLinear(t *testing.T) {
	if got := Easing("bounce").Apply(0.3); got != 0.3 {
		t.Errorf("unknown easing applied %v, want identity", got)
	}
}

func TestParseEasing(t *testing.T) {
	if _, err := ParseEasing("ease-in-out"); err != nil {
		t.Errorf("ParseEasing rejected a valid name: %v", err)
	}
	if _, err := ParseEasing("elastic"); err == nil {
		t.Error("ParseEasing accepted an unknown name")
	}
}

func TestCosineEase(t *testing.T) {
	if got := CosineEase(0); got != 0 {
		t.Errorf("CosineEase(0) = %v", got)
	}
	if got := CosineEase(1); math.Abs(got-1) > 1e-12 {
		t.Errorf("CosineEase(1) = %v", got)
	}
	if got := CosineEase(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("CosineEase(0.5) = %v", got)
	}
}

func TestSmootherstep(t *testing.T) {
	if Smootherstep(-1) != 0 || Smootherstep(2) != 1 {
		t.Error("Smootherstep must clamp")
	}
	if got := Smootherstep(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Smootherstep(0.5) = %v", got)
	}
}

func TestCatmullRomInterpolatesEndpoints(t *testing.T) {
	p0, p1, p2, p3 := 0.0, 1.0, 2.0, 3.0
	if got := CatmullRom(p0, p1, p2, p3, 0); math.Abs(got-p1) > 1e-12 {
		t.Errorf("CatmullRom t=0 = %v, want %v", got, p1)
	}
	if got := CatmullRom(p0, p1, p2, p3, 1); math.Abs(got-p2) > 1e-12 {
		t.Errorf("CatmullRom t=1 = %v, want %v", got, p2)
	}
}
