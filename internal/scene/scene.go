// Package scene drives the producers in their total order (envelope,
// guide curves, dots, folding chains) and freezes the result into an
// immutable Scene value: flat attribute arrays plus the per-frame uniform
// pack.
package scene

import (
	"fmt"

	"github.com/lumenfold/lumenfold/internal/batch"
	"github.com/lumenfold/lumenfold/internal/chains"
	"github.com/lumenfold/lumenfold/internal/curves"
	"github.com/lumenfold/lumenfold/internal/dots"
	"github.com/lumenfold/lumenfold/internal/envelope"
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

// Uniforms is the per-scene uniform pack consumed by a renderer. Fold,
// morph, and timeline state modulate these per frame without touching the
// accumulators.
type Uniforms struct {
	Lights dots.LightSet

	BgInner params.RGB
	BgOuter params.RGB

	CameraZ       float64
	CameraFov     float64
	CameraOffsetX float64
	CameraOffsetY float64

	BloomStrength       float64
	BloomThreshold      float64
	ChromaticAberration float64
	VignetteStrength    float64

	DensityScale float64
	LumScale     float64

	FlowScale     float64
	FlowInfluence float64
}

// Scene is one immutable build of (seed, controls). A new pair produces a
// new Scene; nothing is shared or mutated across Scenes.
type Scene struct {
	Seed     string
	Controls params.Controls
	Derived  params.DerivedParams

	Batches *batch.Accumulator
	Dots    []dots.Dot
	Lights  dots.LightSet

	// SphereInst is the flat glow-dot instance stream:
	// pos[3], size, intensity, color[3] per dot.
	SphereInst []float32

	NodeCount int
	Uniforms  Uniforms
}

// Build assembles the full scene for a seed label and control vector.
// The producer order is a total order; later stages read the frozen
// outputs of earlier ones.
func Build(seedLabel string, c params.Controls) (*Scene, error) {
	random, err := rng.FromLabel(seedLabel)
	if err != nil {
		return nil, err
	}

	c = c.Sanitize()
	derived, err := params.DeriveParams(c)
	if err != nil {
		return nil, err
	}

	env, err := envelope.New(derived.EnvelopeRadii)
	if err != nil {
		return nil, err
	}

	flow := NewFlowField(rng.StringHash(seedLabel+":flow")(), derived.FlowScale)

	guideCurves := curves.Generate(env, derived.Curves, curves.FlowBias{
		Direction: flow.Direction,
		Influence: derived.FlowInfluence,
	}, random)

	allDots := dots.Generate(env, derived, guideCurves, random)
	lights := dots.SignificantLights(allDots)

	acc := batch.New()
	chainCount := emitChains(acc, env, derived, lights, flow, random)

	if err := acc.Finalize(); err != nil {
		return nil, fmt.Errorf("scene build: %w", err)
	}

	s := &Scene{
		Seed:       seedLabel,
		Controls:   c,
		Derived:    derived,
		Batches:    acc,
		Dots:       allDots,
		Lights:     lights,
		SphereInst: packSphereInst(allDots),
		NodeCount:  acc.Faces.VertexCount()/3 + chainCount,
		Uniforms: Uniforms{
			Lights:              lights,
			BgInner:             derived.BgInnerColor,
			BgOuter:             derived.BgOuterColor,
			CameraZ:             derived.CameraZ,
			CameraFov:           derived.CameraFov,
			CameraOffsetX:       derived.CameraOffsetX,
			CameraOffsetY:       derived.CameraOffsetY,
			BloomStrength:       derived.BloomStrength,
			BloomThreshold:      derived.BloomThreshold,
			ChromaticAberration: derived.ChromaticAberration,
			VignetteStrength:    derived.VignetteStrength,
			DensityScale:        derived.DensityScale,
			LumScale:            derived.LumScale,
			FlowScale:           derived.FlowScale,
			FlowInfluence:       derived.FlowInfluence,
		},
	}
	return s, nil
}

// emitChains seeds chain origins on the envelope, pulls them inward, and
// orients each along the flow field in proportion to the coherence-derived
// influence.
func emitChains(acc *batch.Accumulator, env *envelope.Envelope, derived params.DerivedParams,
	lights dots.LightSet, flow *FlowField, random rng.Stream) int {

	cfg := derived.Chains
	if cfg.Count <= 0 {
		return 0
	}
	seeds := env.SeedPoints(cfg.Count)
	for _, seedPt := range seeds {
		origin := seedPt.Mul(cfg.Spread * (0.35 + 0.5*random()))
		dist := origin.Len()

		familyHue := -1.0
		if random.Chance(0.6) {
			familyHue = derived.Palette.FamilyHue(random())
		}

		var tendril *geom.Vec3
		if derived.FlowInfluence > 0 {
			radial := seedPt.Norm()
			dir := radial.Lerp(flow.Direction(origin), derived.FlowInfluence)
			if dir.Len() > 1e-9 {
				d := dir.Norm()
				tendril = &d
			}
		}

		chains.Emit(acc, chains.Spec{
			Origin:         origin,
			Length:         cfg.Length,
			PlaneScale:     cfg.PlaneScaleMin + (cfg.PlaneScaleMax-cfg.PlaneScaleMin)*random(),
			DistFromCenter: dist,
			Lights:         lights,
			Config:         cfg,
			Palette:        derived.Palette,
			FaceAtten: chains.FaceAttenuation{
				DensityAtten: derived.FaceDensityAtten,
				OpacityScale: derived.FaceOpacityScale,
			},
			FamilyHue:  familyHue,
			TendrilDir: tendril,
		}, random)
	}
	return len(seeds)
}

func packSphereInst(all []dots.Dot) []float32 {
	out := make([]float32, 0, len(all)*8)
	for _, d := range all {
		out = append(out,
			float32(d.Pos.X), float32(d.Pos.Y), float32(d.Pos.Z),
			float32(d.Size), float32(d.Intensity),
			float32(d.Color.R), float32(d.Color.G), float32(d.Color.B),
		)
	}
	return out
}
