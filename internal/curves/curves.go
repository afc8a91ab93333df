// Package curves grows the three tiers of guide curves: constrained
// random walks on the envelope surface with inter-curve repulsion. The
// walk is neither a geodesic nor a streamline; the weak many-body push
// between curves is part of the look.
package curves

import (
	"math"

	"github.com/lumenfold/lumenfold/internal/envelope"
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

// Tier labels a curve's generation tier.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierTertiary  Tier = "tertiary"
)

// Repulsion tuning. Inter-curve pushes reach further and harder than a
// curve's push against its own wake.
const (
	interRadius   = 0.35
	selfRadius    = 0.25
	interStrength = 0.12
	selfStrength  = 0.06
	selfSkip      = 5
	repulseBlend  = 0.3

	surfaceLeash = 0.05
	originLeash  = 1.8
)

// Curve is one finished walk.
type Curve struct {
	Tier    Tier
	Points  []geom.Vec3
	Normals []geom.Vec3
	Length  float64
}

// FlowBias orients the first step of each walk. A nil field is no bias.
type FlowBias struct {
	Direction func(p geom.Vec3) geom.Vec3
	Influence float64
}

// Generate grows all three tiers in order against env. Curves shorter than
// the tier's MinLength are discarded; each tier stops once MaxCount curves
// survive.
func Generate(env *envelope.Envelope, cfg params.CurveConfig, bias FlowBias, random rng.Stream) []Curve {
	var all []Curve
	all = growTier(env, TierPrimary, cfg.Primary, bias, random, all)
	all = growTier(env, TierSecondary, cfg.Secondary, bias, random, all)
	all = growTier(env, TierTertiary, cfg.Tertiary, bias, random, all)
	return all
}

func growTier(env *envelope.Envelope, tier Tier, cfg params.CurveTierConfig, bias FlowBias, random rng.Stream, prior []Curve) []Curve {
	if cfg.SeedCount <= 0 || cfg.MaxCount <= 0 {
		return prior
	}
	kept := 0
	seeds := env.SeedPoints(cfg.SeedCount)
	for _, seed := range seeds {
		if kept >= cfg.MaxCount {
			break
		}
		c := grow(env, tier, cfg, bias, random, prior, seed)
		if c.Length < cfg.MinLength {
			continue
		}
		prior = append(prior, c)
		kept++
	}
	return prior
}

// randomUnit draws a uniform direction on the sphere.
func randomUnit(random rng.Stream) geom.Vec3 {
	z := random()*2 - 1
	theta := random() * 2 * math.Pi
	ring := math.Sqrt(math.Max(0, 1-z*z))
	return geom.Vec3{X: math.Cos(theta) * ring, Y: z, Z: math.Sin(theta) * ring}
}

func grow(env *envelope.Envelope, tier Tier, cfg params.CurveTierConfig, bias FlowBias, random rng.Stream, prior []Curve, seed geom.Vec3) Curve {
	pos := env.Project(seed)
	n := env.Normal(pos)

	tangent := randomUnit(random).ProjectOnPlane(n)
	if bias.Direction != nil && bias.Influence > 0 {
		flow := bias.Direction(pos).ProjectOnPlane(n)
		if flow.Len() > 1e-9 {
			tangent = tangent.Lerp(flow.Norm().Mul(tangent.Len()), bias.Influence)
		}
	}
	if tangent.Len() < 1e-9 {
		tangent = n.Cross(geom.Vec3{X: 1}).Norm()
	} else {
		tangent = tangent.Norm()
	}

	c := Curve{
		Tier:    tier,
		Points:  []geom.Vec3{pos},
		Normals: []geom.Vec3{n},
	}

	for step := 0; step < cfg.MaxSteps; step++ {
		n = env.Normal(pos)
		tangent = tangent.ProjectOnPlane(n)
		if tangent.Len() < 1e-9 {
			break
		}
		tangent = tangent.Norm()

		// Random bend about the surface normal.
		angle := (random() - 0.5) * cfg.Curvature
		tangent = tangent.RotateAbout(n, angle)

		// Many-body repulsion from every prior curve, and from this
		// curve's own wake beyond the most recent samples.
		push := repulsion(pos, n, prior, c.Points)
		if push.Len() > 1e-9 {
			tangent = tangent.Lerp(push.Norm(), repulseBlend).ProjectOnPlane(n)
			if tangent.Len() < 1e-9 {
				break
			}
			tangent = tangent.Norm()
		}

		next := env.Project(pos.Add(tangent.Mul(cfg.StepSize)))
		if env.SDF(next) > surfaceLeash || next.Len() > originLeash {
			break
		}

		c.Length += next.Dist(pos)
		pos = next
		c.Points = append(c.Points, pos)
		c.Normals = append(c.Normals, env.Normal(pos))
	}

	return c
}

// repulsion accumulates tangent-plane inverse-square pushes away from
// nearby samples of other curves and the walk's own older samples.
func repulsion(pos geom.Vec3, n geom.Vec3, prior []Curve, own []geom.Vec3) geom.Vec3 {
	var sum geom.Vec3
	for ci := range prior {
		for _, q := range prior[ci].Points {
			sum = sum.Add(pushFrom(pos, q, interRadius, interStrength))
		}
	}
	if len(own) > selfSkip {
		for _, q := range own[:len(own)-selfSkip] {
			sum = sum.Add(pushFrom(pos, q, selfRadius, selfStrength))
		}
	}
	return sum.ProjectOnPlane(n)
}

func pushFrom(pos, q geom.Vec3, radius, strength float64) geom.Vec3 {
	delta := pos.Sub(q)
	d2 := delta.LenSq()
	if d2 >= radius*radius || d2 < 1e-10 {
		return geom.Vec3{}
	}
	return delta.Mul(strength / d2)
}
