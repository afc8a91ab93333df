// Package dots generates the five glow-dot tiers and selects the bounded
// significant-light set that illuminates faces and chains.
package dots

import (
	"math"

	"github.com/lumenfold/lumenfold/internal/curves"
	"github.com/lumenfold/lumenfold/internal/envelope"
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

// Tier labels a dot's generation tier.
type Tier string

const (
	TierHero     Tier = "hero"
	TierMedium   Tier = "medium"
	TierSmall    Tier = "small"
	TierInterior Tier = "interior"
	TierMicro    Tier = "micro"
)

const (
	rejectAttempts   = 50
	interiorMaxSDF   = -0.05
	microMaxSDF      = 0.05
	smallTierSpacing = 0.06
)

// Dot is one glow sprite instance.
type Dot struct {
	Pos       geom.Vec3
	Size      float64
	Intensity float64
	Color     params.RGB
	Tier      Tier
}

// gaussian draws a standard normal via Box-Muller.
func gaussian(random rng.Stream) float64 {
	u1 := random()
	if u1 < 1e-12 {
		u1 = 1e-12
	}
	u2 := random()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func gaussianPoint(center, spread geom.Vec3, random rng.Stream) geom.Vec3 {
	return geom.Vec3{
		X: center.X + gaussian(random)*spread.X,
		Y: center.Y + gaussian(random)*spread.Y,
		Z: center.Z + gaussian(random)*spread.Z,
	}
}

// ColorAt is the radial colour transducer: pale and desaturated at the
// center, warm and vivid toward the edge. d is world distance from origin.
func ColorAt(d, baseHueDeg, lightnessBase, lightnessRange float64, random rng.Stream) params.RGB {
	fade := math.Exp(-0.3 * d * d)
	edgeness := math.Pow(1-fade, 0.6)
	hue := baseHueDeg + 60*edgeness + 25*random()
	sat := 0.90*edgeness + 0.08
	light := lightnessBase + fade*lightnessRange
	return params.HSL(hue, sat, light)
}

// Generate builds all five tiers in order: hero, medium, small, interior,
// micro. Glow amplitudes are divided by the density compensator and scaled
// by the luminosity factor.
func Generate(env *envelope.Envelope, d params.DerivedParams, guideCurves []curves.Curve, random rng.Stream) []Dot {
	glow := d.LumScale / d.DensityScale
	var all []Dot

	// Hero: bright, white, large, no SDF rejection.
	for i := 0; i < d.Dots.Hero.Count; i++ {
		all = append(all, Dot{
			Pos:       gaussianPoint(geom.Vec3{}, d.Dots.Hero.Spread, random),
			Size:      d.Dots.Hero.Size,
			Intensity: d.Dots.Hero.Intensity * glow,
			Color:     params.RGB{R: 1, G: 1, B: 1},
			Tier:      TierHero,
		})
	}

	// Medium: rides the primary curves at u in [0.3, 0.7] with jitter.
	var primaries []curves.Curve
	for _, c := range guideCurves {
		if c.Tier == curves.TierPrimary {
			primaries = append(primaries, c)
		}
	}
	for i := 0; i < d.Dots.Medium.Count; i++ {
		pos := gaussianPoint(geom.Vec3{}, d.Dots.Hero.Spread, random)
		if len(primaries) > 0 {
			c := primaries[random.Intn(len(primaries))]
			if f, ok := curves.FrameAt(c, 0.3+0.4*random()); ok {
				pos = gaussianPoint(f.Pos, d.Dots.Medium.Spread, random)
			}
		}
		all = append(all, Dot{
			Pos:       pos,
			Size:      d.Dots.Medium.Size,
			Intensity: d.Dots.Medium.Intensity * glow,
			Color:     params.RGB{R: 1, G: 1, B: 1},
			Tier:      TierMedium,
		})
	}

	// Small: Bernoulli-sampled along every curve, palette-coloured by the
	// radial transducer.
	for _, c := range guideCurves {
		for _, f := range curves.SampleAlongCurve(c, smallTierSpacing) {
			if !random.Chance(d.Dots.Small.Density) {
				continue
			}
			pos := gaussianPoint(f.Pos, d.Dots.Small.Spread, random)
			all = append(all, Dot{
				Pos:       pos,
				Size:      d.Dots.Small.Size,
				Intensity: d.Dots.Small.Intensity * glow,
				Color:     ColorAt(pos.Len(), d.DotBaseHue, d.Palette.LightnessBase, d.Palette.LightnessRange, random),
				Tier:      TierSmall,
			})
		}
	}

	// Interior: must be well inside the envelope.
	for i := 0; i < d.Dots.Interior.Count; i++ {
		pos, ok := rejectSample(env, d.Dots.Interior.Spread, random, func(s float64) bool {
			return s <= interiorMaxSDF
		})
		if !ok {
			continue
		}
		all = append(all, Dot{
			Pos:       pos,
			Size:      d.Dots.Interior.Size,
			Intensity: d.Dots.Interior.Intensity * glow,
			Color:     ColorAt(pos.Len(), d.DotBaseHue, d.Palette.LightnessBase*0.8, d.Palette.LightnessRange*0.7, random),
			Tier:      TierInterior,
		})
	}

	// Micro: anywhere up to the near-outside band.
	for i := 0; i < d.Dots.Micro.Count; i++ {
		pos, ok := rejectSample(env, d.Dots.Micro.Spread, random, func(s float64) bool {
			return s <= microMaxSDF
		})
		if !ok {
			continue
		}
		all = append(all, Dot{
			Pos:       pos,
			Size:      d.Dots.Micro.Size,
			Intensity: d.Dots.Micro.Intensity * glow,
			Color:     ColorAt(pos.Len(), d.MicroDotBaseHue, d.Palette.LightnessBase*0.7, d.Palette.LightnessRange*0.6, random),
			Tier:      TierMicro,
		})
	}

	return all
}

func rejectSample(env *envelope.Envelope, spread geom.Vec3, random rng.Stream, accept func(sdf float64) bool) (geom.Vec3, bool) {
	for a := 0; a < rejectAttempts; a++ {
		p := gaussianPoint(geom.Vec3{}, spread, random)
		if accept(env.SDF(p)) {
			return p, true
		}
	}
	return geom.Vec3{}, false
}
