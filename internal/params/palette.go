package params

import (
	"fmt"
	"math"
)

// RGB is a colour triple with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Scale multiplies every component without clamping.
func (c RGB) Scale(s float64) RGB { return RGB{c.R * s, c.G * s, c.B * s} }

// Clamp clamps every component to [0,1].
func (c RGB) Clamp() RGB {
	cl := func(x float64) float64 {
		if x < 0 {
			return 0
		}
		if x > 1 {
			return 1
		}
		return x
	}
	return RGB{cl(c.R), cl(c.G), cl(c.B)}
}

// Lerp interpolates componentwise toward o.
func (c RGB) Lerp(o RGB, t float64) RGB {
	return RGB{
		c.R + (o.R-c.R)*t,
		c.G + (o.G-c.G)*t,
		c.B + (o.B-c.B)*t,
	}
}

// HSL converts hue (degrees, wrapped), saturation and lightness in [0,1]
// into RGB.
func HSL(hueDeg, sat, light float64) RGB {
	h := math.Mod(hueDeg, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*light-1)) * sat
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := light - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return RGB{r + m, g + m, b + m}.Clamp()
}

// Legacy palette coordinate domain. The v2 axes (hue, spectrum, chroma)
// map onto this triple by the closed forms below; shared v1 links decode
// through the same mapping so older URLs reproduce the same colour.
const (
	legacyHueRangeMin = 5.0
	legacyHueRangeMax = 360.0
	legacySatMin      = 0.05
	legacySatMax      = 1.0
)

// LegacyPalette is the pre-v2 colour parameterisation.
type LegacyPalette struct {
	BaseHue    float64 // degrees, [0,360]
	HueRange   float64 // degrees, [5,360]
	Saturation float64 // [0.05,1]
}

// ToAxes converts legacy palette coordinates to the (hue, spectrum,
// chroma) axes.
func (p LegacyPalette) ToAxes() (hue, spectrum, chroma float64) {
	hue = p.BaseHue / 360
	spectrum = (p.HueRange - legacyHueRangeMin) / (legacyHueRangeMax - legacyHueRangeMin)
	chroma = (p.Saturation - legacySatMin) / (legacySatMax - legacySatMin)
	return
}

// LegacyFromAxes inverts ToAxes.
func LegacyFromAxes(hue, spectrum, chroma float64) LegacyPalette {
	return LegacyPalette{
		BaseHue:    hue * 360,
		HueRange:   legacyHueRangeMin + spectrum*(legacyHueRangeMax-legacyHueRangeMin),
		Saturation: legacySatMin + chroma*(legacySatMax-legacySatMin),
	}
}

// namedLegacyPalettes are the v1 preset palettes, keyed by the `p` URL
// parameter of v1 share links.
var namedLegacyPalettes = map[string]LegacyPalette{
	"warm-spectrum": {BaseHue: 22, HueRange: 83, Saturation: 0.959},
	"cool-dusk":     {BaseHue: 228, HueRange: 64, Saturation: 0.62},
	"ember":         {BaseHue: 8, HueRange: 36, Saturation: 0.88},
	"verdant":       {BaseHue: 132, HueRange: 58, Saturation: 0.55},
	"mono-ice":      {BaseHue: 204, HueRange: 12, Saturation: 0.24},
	"prism":         {BaseHue: 0, HueRange: 360, Saturation: 0.8},
}

// NamedLegacyPalette resolves a v1 palette name.
func NamedLegacyPalette(name string) (LegacyPalette, error) {
	p, ok := namedLegacyPalettes[name]
	if !ok {
		return LegacyPalette{}, fmt.Errorf("unknown palette %q", name)
	}
	return p, nil
}

// Palette is the colour primitive set producers draw from.
type Palette struct {
	BaseHueDeg     float64
	HueRangeDeg    float64
	Saturation     float64
	LightnessBase  float64
	LightnessRange float64
}

// Pick chooses a face colour by distance from the chain origin. Hue walks
// along the palette range with distance, lightness decays with the chain's
// decay rate, and illumination lifts both saturation and lightness. A
// non-negative familyHue pins the hue so a whole chain family reads as one
// body.
func (p Palette) Pick(dist, decayRate, illum, familyHue float64) RGB {
	hue := p.BaseHueDeg + p.HueRangeDeg*0.5*math.Tanh(dist*0.8)
	if familyHue >= 0 {
		hue = familyHue
	}
	fade := math.Exp(-decayRate * 0.35 * dist * dist)
	light := p.LightnessBase + p.LightnessRange*fade + illum
	if light > 0.92 {
		light = 0.92
	}
	sat := p.Saturation * (0.55 + 0.45*(1-fade))
	return HSL(hue, sat, light)
}

// FamilyHue samples a hue for a chain family at u in [0,1) across the
// palette range.
func (p Palette) FamilyHue(u float64) float64 {
	return math.Mod(p.BaseHueDeg+p.HueRangeDeg*(u-0.5), 360)
}
