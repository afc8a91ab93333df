// Package render is the CPU preview renderer: it projects the scene's
// attribute streams through the derived camera, splats glow sprites
// additively, and applies the derived post chain (bloom, chromatic
// aberration, vignette, grain). Output feeds the export ZIP and the
// social card; it is deterministic for a fixed scene and frame state.
package render

import (
	"image"
	"math"
)

// floatBuf is a linear-light accumulation buffer with parallel channel
// planes.
type floatBuf struct {
	w, h    int
	R, G, B []float64
}

func newFloatBuf(w, h int) *floatBuf {
	n := w * h
	return &floatBuf{
		w: w, h: h,
		R: make([]float64, n),
		G: make([]float64, n),
		B: make([]float64, n),
	}
}

func (f *floatBuf) idx(x, y int) int { return y*f.w + x }

// addAt accumulates additively with bounds checking.
func (f *floatBuf) addAt(x, y int, r, g, b float64) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	i := f.idx(x, y)
	f.R[i] += r
	f.G[i] += g
	f.B[i] += b
}

// setAt overwrites a pixel with bounds checking.
func (f *floatBuf) setAt(x, y int, r, g, b float64) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	i := f.idx(x, y)
	f.R[i] = r
	f.G[i] = g
	f.B[i] = b
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// toRGBA tone-maps the accumulation buffer into an opaque sRGB-ish image.
// A simple Reinhard curve keeps additive highlights from clipping flat.
func (f *floatBuf) toRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			i := f.idx(x, y)
			r := tonemap(f.R[i])
			g := tonemap(f.G[i])
			b := tonemap(f.B[i])
			o := img.PixOffset(x, y)
			img.Pix[o+0] = uint8(r*255 + 0.5)
			img.Pix[o+1] = uint8(g*255 + 0.5)
			img.Pix[o+2] = uint8(b*255 + 0.5)
			img.Pix[o+3] = 255
		}
	}
	return img
}

func tonemap(v float64) float64 {
	if v < 0 {
		return 0
	}
	v = v / (1 + v*0.35)
	return clamp01(math.Pow(v, 1/2.2))
}
