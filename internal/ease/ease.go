// Package ease provides the interpolation kernel: clamping, lerps, the
// piecewise control ramp, Catmull-Rom, and the named easing functions used
// by the timeline.
package ease

import (
	"fmt"
	"math"
)

// TimeWarpStrength drives WarpSegmentT inside timeline evaluation.
const TimeWarpStrength = 0.35

// Clamp01 clamps x into [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Lerp interpolates between a and b without clamping t.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Smootherstep is the degree-5 Perlin smoothstep: 0 for t<=0, 1 for t>=1.
func Smootherstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * t * (t*(t*6-15) + 10)
}

// CosineEase is the half-cosine ramp (1-cos(pi t))/2 on clamped t.
func CosineEase(t float64) float64 {
	return (1 - math.Cos(math.Pi*Clamp01(t))) / 2
}

// CatmullRom evaluates the tension-1/2 spline through p1 (t=0) and p2 (t=1).
func CatmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// ControlLerp is the piecewise-linear ramp through (0,lo), (0.5,mid), (1,hi).
// Every asymmetric parameter derivation uses it.
func ControlLerp(t, lo, mid, hi float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return Lerp(lo, mid, t*2)
	}
	return Lerp(mid, hi, (t-0.5)*2)
}

// WarpSegmentT reshapes t in [0,1] into an S-curve of the given strength.
// Endpoints are fixed; strength 0 is the identity.
func WarpSegmentT(t, strength float64) float64 {
	t = Clamp01(t)
	if strength == 0 {
		return t
	}
	eased := t * t * (3 - 2*t)
	return Lerp(t, eased, strength)
}

// Easing names the closed enumeration of timeline easings.
type Easing string

const (
	EaseLinear    Easing = "linear"
	EaseIn        Easing = "ease-in"
	EaseOut       Easing = "ease-out"
	EaseInOut     Easing = "ease-in-out"
	DefaultEasing        = EaseInOut
)

// Valid reports whether e is one of the enumerated easing names.
func (e Easing) Valid() bool {
	switch e {
	case EaseLinear, EaseIn, EaseOut, EaseInOut:
		return true
	}
	return false
}

// Apply evaluates the named easing at clamped t. Unknown names fall back
// to linear so stale timelines degrade instead of failing mid-frame.
func (e Easing) Apply(t float64) float64 {
	t = Clamp01(t)
	switch e {
	case EaseIn:
		return t * t * t
	case EaseOut:
		u := 1 - t
		return 1 - u*u*u
	case EaseInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		return t
	}
}

// ParseEasing validates an easing name from external input.
func ParseEasing(name string) (Easing, error) {
	e := Easing(name)
	if !e.Valid() {
		return "", fmt.Errorf("unknown easing %q", name)
	}
	return e, nil
}
