package render

import (
	"image"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"
	"golang.org/x/image/draw"

	"github.com/lumenfold/lumenfold/internal/scene"
)

// Post-chain tuning. Bloom sigma is in output pixels; the grain octave
// settings follow the paper-texture generator.
const (
	bloomSigma     = 6.0
	caPixelScale   = 0.004
	grainAmplitude = 0.035
	grainFrequency = 0.35
	grainSeed      = 1337

	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

type grainField struct {
	noise *perlin.Perlin
}

func newGrainField() *grainField {
	return &grainField{noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, grainSeed)}
}

// at returns a signed grain value in roughly [-1, 1].
func (g *grainField) at(x, y float64) float64 {
	return g.noise.Noise2D(x*grainFrequency, y*grainFrequency)
}

// post runs the full chain on the supersampled buffer and returns the
// final output-sized frame: bloom, chromatic aberration, vignette, grain,
// tonemap, downscale.
func (r *Renderer) post(buf *floatBuf, u scene.Uniforms) *image.RGBA {
	if u.BloomStrength > 0 {
		applyBloom(buf, u.BloomThreshold, u.BloomStrength)
	}
	if u.ChromaticAberration > 0 {
		applyChromaticAberration(buf, u.ChromaticAberration)
	}
	if u.VignetteStrength > 0 {
		applyVignette(buf, u.VignetteStrength)
	}

	applyGrain(buf, r.grain)

	hi := buf.toRGBA()
	if Supersample == 1 {
		return hi
	}
	out := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.CatmullRom.Scale(out, out.Bounds(), hi, hi.Bounds(), draw.Src, nil)
	return out
}

// applyBloom extracts pixels above the luminance threshold, blurs the
// bright pass, and adds it back scaled by strength.
func applyBloom(buf *floatBuf, threshold, strength float64) {
	bright := image.NewRGBA(image.Rect(0, 0, buf.w, buf.h))
	for y := 0; y < buf.h; y++ {
		for x := 0; x < buf.w; x++ {
			i := buf.idx(x, y)
			lum := 0.2126*buf.R[i] + 0.7152*buf.G[i] + 0.0722*buf.B[i]
			if lum <= threshold {
				continue
			}
			o := bright.PixOffset(x, y)
			bright.Pix[o+0] = uint8(clamp01(buf.R[i]-threshold) * 255)
			bright.Pix[o+1] = uint8(clamp01(buf.G[i]-threshold) * 255)
			bright.Pix[o+2] = uint8(clamp01(buf.B[i]-threshold) * 255)
			bright.Pix[o+3] = 255
		}
	}

	g := gift.New(gift.GaussianBlur(float32(bloomSigma * Supersample)))
	blurred := image.NewRGBA(g.Bounds(bright.Bounds()))
	g.Draw(blurred, bright)

	for y := 0; y < buf.h; y++ {
		for x := 0; x < buf.w; x++ {
			o := blurred.PixOffset(x, y)
			i := buf.idx(x, y)
			buf.R[i] += float64(blurred.Pix[o+0]) / 255 * strength
			buf.G[i] += float64(blurred.Pix[o+1]) / 255 * strength
			buf.B[i] += float64(blurred.Pix[o+2]) / 255 * strength
		}
	}
}

// applyChromaticAberration shifts the red and blue planes apart radially
// along X. The shift grows with distance from centre.
func applyChromaticAberration(buf *floatBuf, amount float64) {
	maxShift := amount * caPixelScale * float64(buf.w)
	if maxShift < 0.5 {
		return
	}
	srcR := make([]float64, len(buf.R))
	srcB := make([]float64, len(buf.B))
	copy(srcR, buf.R)
	copy(srcB, buf.B)

	cx := float64(buf.w) / 2
	for y := 0; y < buf.h; y++ {
		for x := 0; x < buf.w; x++ {
			d := (float64(x) - cx) / cx
			shift := int(math.Round(maxShift * d))
			i := buf.idx(x, y)
			if xr := x + shift; xr >= 0 && xr < buf.w {
				buf.R[i] = srcR[buf.idx(xr, y)]
			}
			if xb := x - shift; xb >= 0 && xb < buf.w {
				buf.B[i] = srcB[buf.idx(xb, y)]
			}
		}
	}
}

// applyVignette darkens toward the corners with a quadratic falloff.
func applyVignette(buf *floatBuf, strength float64) {
	cx := float64(buf.w) / 2
	cy := float64(buf.h) / 2
	maxD2 := cx*cx + cy*cy
	for y := 0; y < buf.h; y++ {
		for x := 0; x < buf.w; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			k := 1 - strength*(dx*dx+dy*dy)/maxD2
			if k < 0 {
				k = 0
			}
			i := buf.idx(x, y)
			buf.R[i] *= k
			buf.G[i] *= k
			buf.B[i] *= k
		}
	}
}

// applyGrain adds multiplicative paper grain from the noise field. Grain
// is value-relative so dark regions stay clean.
func applyGrain(buf *floatBuf, g *grainField) {
	inv := 1.0 / float64(Supersample)
	for y := 0; y < buf.h; y++ {
		fy := float64(y) * inv
		for x := 0; x < buf.w; x++ {
			n := g.at(float64(x)*inv, fy) * grainAmplitude
			i := buf.idx(x, y)
			buf.R[i] *= 1 + n
			buf.G[i] *= 1 + n
			buf.B[i] *= 1 + n
		}
	}
}
