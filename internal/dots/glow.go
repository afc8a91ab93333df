package dots

import (
	"image"
	"image/color"
	"math"
)

// GlowSize is the edge length of the glow sprite.
const GlowSize = 128

// glowStops are the radial gradient stops (radius fraction, value). The
// exact stops are part of the visual contract.
var glowStops = [...][2]float64{
	{0.0, 0.40},
	{0.1, 0.25},
	{0.3, 0.10},
	{0.6, 0.03},
	{1.0, 0.00},
}

// glowValue evaluates the piecewise-linear gradient at radius fraction r.
func glowValue(r float64) float64 {
	if r <= 0 {
		return glowStops[0][1]
	}
	if r >= 1 {
		return glowStops[len(glowStops)-1][1]
	}
	for i := 1; i < len(glowStops); i++ {
		if r <= glowStops[i][0] {
			a, b := glowStops[i-1], glowStops[i]
			t := (r - a[0]) / (b[0] - a[0])
			return a[1] + (b[1]-a[1])*t
		}
	}
	return 0
}

// GlowTexture renders the opaque 128x128 radial glow sprite. The caller
// owns the image; a renderer creates it once and reuses it for every
// splat.
func GlowTexture() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, GlowSize, GlowSize))
	half := float64(GlowSize) / 2
	for y := 0; y < GlowSize; y++ {
		for x := 0; x < GlowSize; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			v := glowValue(math.Sqrt(dx*dx + dy*dy))
			g := uint8(math.Round(v * 255))
			img.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return img
}
