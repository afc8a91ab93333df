package params

import (
	"fmt"
	"math"

	"github.com/lumenfold/lumenfold/internal/ease"
	"github.com/lumenfold/lumenfold/internal/geom"
)

// DotTierConfig sizes one dot tier.
type DotTierConfig struct {
	Count     int
	Spread    geom.Vec3
	Size      float64
	Intensity float64
	// Density is the per-sample Bernoulli rate for curve-attached tiers.
	Density float64
}

// DotConfig collects the five dot tiers.
type DotConfig struct {
	Hero     DotTierConfig
	Medium   DotTierConfig
	Small    DotTierConfig
	Interior DotTierConfig
	Micro    DotTierConfig
}

// ChainConfig sizes the folding-chain producer.
type ChainConfig struct {
	Count            int
	Length           int
	PlaneScaleMin    float64
	PlaneScaleMax    float64
	Spread           float64
	DecayRate        float64
	CrackExtendScale float64
	QuadProbability  float64
}

// CurveTierConfig configures one guide-curve tier.
type CurveTierConfig struct {
	SeedCount int
	MaxCount  int
	MaxSteps  int
	StepSize  float64
	Curvature float64
	MinLength float64
}

// CurveConfig collects the three guide-curve tiers.
type CurveConfig struct {
	Primary   CurveTierConfig
	Secondary CurveTierConfig
	Tertiary  CurveTierConfig
}

// DerivedParams is the read-only record every producer consumes. Built
// once per scene by DeriveParams; never mutated afterwards.
type DerivedParams struct {
	// Density compensation. DensityScale divides every glow amplitude
	// (energy conservation under additive blending); the attenuation
	// scalars keep dense scenes legible instead of white-washed.
	DensityScale     float64
	FaceDensityAtten float64
	FaceOpacityScale float64
	BloomDensityAtten float64

	LumScale float64

	CameraZ       float64
	CameraFov     float64
	CameraOffsetX float64
	CameraOffsetY float64

	BgInnerColor RGB
	BgOuterColor RGB

	BloomStrength       float64
	BloomThreshold      float64
	ChromaticAberration float64
	VignetteStrength    float64

	EnvelopeRadii geom.Vec3

	FlowScale     float64
	FlowInfluence float64

	Dots   DotConfig
	Chains ChainConfig
	Curves CurveConfig

	DotBaseHue      float64
	MicroDotBaseHue float64
	Palette         Palette
}

func roundCount(x float64) int {
	n := int(math.Round(x))
	if n < 0 {
		return 0
	}
	return n
}

// DeriveParams maps sanitized controls to the derived record. The
// (lo, mid, hi) triples below are tuned against the default scene and are
// bit-exact across implementations.
func DeriveParams(c Controls) (DerivedParams, error) {
	c = c.Sanitize()

	var d DerivedParams

	// Density compensation family.
	d.DensityScale = ease.ControlLerp(c.Density, 0.35, 1.0, 5.5)
	d.FaceDensityAtten = ease.ControlLerp(c.Density, 0.90, 1.0, 2.5)
	d.FaceOpacityScale = ease.ControlLerp(c.Density, 1.0, 1.0, 0.45)
	d.BloomDensityAtten = ease.ControlLerp(c.Density, 1.0, 1.0, 1.8)

	// The whole luminosity travel must stay readable; zero is dim, not
	// black.
	d.LumScale = ease.ControlLerp(c.Luminosity, 0.65, 1.0, 1.5)

	// Camera. Scale is the legacy depth axis: distance, FOV and vignette
	// only, no geometric effect.
	d.CameraZ = ease.ControlLerp(c.Scale, 3.4, 2.6, 1.9)
	d.CameraFov = ease.ControlLerp(c.Scale, 38, 45, 54)
	d.VignetteStrength = ease.ControlLerp(c.Scale, 0.35, 0.25, 0.12)
	d.CameraOffsetX = ease.ControlLerp(c.Division, -0.10, 0.0, 0.10)
	d.CameraOffsetY = ease.ControlLerp(c.Faceting, 0.08, 0.0, -0.08)

	// Bloom.
	d.BloomStrength = ease.ControlLerp(c.Luminosity, 0.35, 0.85, 1.60) / d.BloomDensityAtten
	d.BloomThreshold = ease.ControlLerp(c.Luminosity, 0.55, 0.40, 0.22)

	// Fracture moves every subsystem in the same "how broken" direction.
	radiiAniso := ease.ControlLerp(c.Fracture, 0.04, 0.16, 0.42)
	d.ChromaticAberration = ease.ControlLerp(c.Fracture, 0.0008, 0.0026, 0.0085)
	fractureSpread := ease.ControlLerp(c.Fracture, 0.85, 1.0, 1.45)
	fractureScale := ease.ControlLerp(c.Fracture, 0.85, 1.0, 1.35)

	// Coherence: large coherent regions and strong directional bias at the
	// high end.
	d.FlowScale = ease.ControlLerp(c.Coherence, 5.0, 1.5, 0.5)
	d.FlowInfluence = ease.ControlLerp(c.Coherence, 0.0, 0.18, 0.50)

	d.EnvelopeRadii = geom.Vec3{
		X: 1.18 + radiiAniso*0.55,
		Y: 1.02 - radiiAniso*0.30,
		Z: 1.10 + radiiAniso*0.20,
	}

	// Palette.
	legacy := LegacyFromAxes(c.Hue, c.Spectrum, c.Chroma)
	d.Palette = Palette{
		BaseHueDeg:     legacy.BaseHue,
		HueRangeDeg:    legacy.HueRange,
		Saturation:     legacy.Saturation,
		LightnessBase:  ease.ControlLerp(c.Luminosity, 0.30, 0.42, 0.56),
		LightnessRange: 0.26,
	}
	d.BgInnerColor = HSL(legacy.BaseHue+legacy.HueRange*0.12, legacy.Saturation*0.32,
		ease.ControlLerp(c.Luminosity, 0.050, 0.085, 0.135))
	d.BgOuterColor = HSL(legacy.BaseHue-legacy.HueRange*0.08, legacy.Saturation*0.22,
		ease.ControlLerp(c.Luminosity, 0.012, 0.028, 0.050))
	d.DotBaseHue = legacy.BaseHue
	d.MicroDotBaseHue = math.Mod(legacy.BaseHue+legacy.HueRange*0.5, 360)

	// Dot tiers.
	d.Dots = DotConfig{
		Hero: DotTierConfig{
			Count:     roundCount(ease.ControlLerp(c.Density, 2, 4, 8)),
			Spread:    geom.Vec3{X: 0.80, Y: 0.66, Z: 0.74}.Mul(fractureSpread),
			Size:      ease.ControlLerp(c.Luminosity, 0.30, 0.38, 0.50),
			Intensity: 1.0,
		},
		Medium: DotTierConfig{
			Count:     roundCount(ease.ControlLerp(c.Density, 8, 18, 36)),
			Spread:    geom.Vec3{X: 0.09, Y: 0.09, Z: 0.09}.Mul(fractureSpread),
			Size:      ease.ControlLerp(c.Luminosity, 0.14, 0.19, 0.26),
			Intensity: 0.5,
		},
		Small: DotTierConfig{
			Spread:    geom.Vec3{X: 0.05, Y: 0.05, Z: 0.05}.Mul(fractureSpread),
			Size:      0.085,
			Intensity: 0.22,
			Density:   ease.ControlLerp(c.Density, 0.14, 0.34, 0.78),
		},
		Interior: DotTierConfig{
			Count:     roundCount(ease.ControlLerp(c.Density, 30, 85, 220)),
			Spread:    geom.Vec3{X: 0.52, Y: 0.46, Z: 0.50}.Mul(fractureSpread),
			Size:      0.055,
			Intensity: 0.14,
		},
		Micro: DotTierConfig{
			Count:     roundCount(ease.ControlLerp(c.Density, 70, 160, 430)),
			Spread:    geom.Vec3{X: 1.05, Y: 0.92, Z: 1.00}.Mul(fractureSpread),
			Size:      0.030,
			Intensity: 0.07,
		},
	}

	// Folding chains.
	length := roundCount(ease.ControlLerp(c.Faceting, 3, 6, 11))
	if length < 1 {
		length = 1
	}
	d.Chains = ChainConfig{
		Count:            roundCount(ease.ControlLerp(c.Division, 6, 14, 30)),
		Length:           length,
		PlaneScaleMin:    0.10 * fractureScale,
		PlaneScaleMax:    0.24 * fractureScale,
		Spread:           ease.ControlLerp(c.Fracture, 0.55, 0.75, 1.05),
		DecayRate:        ease.ControlLerp(c.Luminosity, 1.7, 1.25, 0.9),
		CrackExtendScale: ease.ControlLerp(c.Faceting, 1.06, 1.12, 1.26),
		QuadProbability:  0.7,
	}

	// Guide curves. Fracture bends them harder and lets them run longer;
	// flow lengthens the walk.
	curvature := ease.ControlLerp(c.Fracture, 0.40, 0.85, 1.70)
	steps := roundCount(ease.ControlLerp(c.Flow, 40, 70, 120))
	d.Curves = CurveConfig{
		Primary: CurveTierConfig{
			SeedCount: roundCount(ease.ControlLerp(c.Division, 6, 10, 16)),
			MaxCount:  roundCount(ease.ControlLerp(c.Division, 3, 5, 8)),
			MaxSteps:  steps,
			StepSize:  0.045,
			Curvature: curvature,
			MinLength: 0.55,
		},
		Secondary: CurveTierConfig{
			SeedCount: roundCount(ease.ControlLerp(c.Division, 10, 16, 26)),
			MaxCount:  roundCount(ease.ControlLerp(c.Division, 5, 8, 13)),
			MaxSteps:  roundCount(float64(steps) * 0.7),
			StepSize:  0.038,
			Curvature: curvature * 1.25,
			MinLength: 0.35,
		},
		Tertiary: CurveTierConfig{
			SeedCount: roundCount(ease.ControlLerp(c.Division, 14, 22, 36)),
			MaxCount:  roundCount(ease.ControlLerp(c.Division, 7, 11, 18)),
			MaxSteps:  roundCount(float64(steps) * 0.45),
			StepSize:  0.030,
			Curvature: curvature * 1.6,
			MinLength: 0.20,
		},
	}

	if err := d.validate(); err != nil {
		return DerivedParams{}, err
	}
	return d, nil
}

// validate enforces the derivation contract: finite scalars, strictly
// positive radii, non-negative counts, chain length >= 1.
func (d DerivedParams) validate() error {
	if d.EnvelopeRadii.X <= 0 || d.EnvelopeRadii.Y <= 0 || d.EnvelopeRadii.Z <= 0 {
		return fmt.Errorf("%w: envelope radii must be positive, got %+v",
			ErrInvalidParameter, d.EnvelopeRadii)
	}
	if d.Chains.Length < 1 {
		return fmt.Errorf("%w: chain length must be >= 1", ErrInvalidParameter)
	}
	for _, v := range []float64{
		d.DensityScale, d.FaceDensityAtten, d.FaceOpacityScale, d.BloomDensityAtten,
		d.LumScale, d.CameraZ, d.CameraFov, d.CameraOffsetX, d.CameraOffsetY,
		d.BloomStrength, d.BloomThreshold, d.ChromaticAberration, d.VignetteStrength,
		d.FlowScale, d.FlowInfluence,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: derived scalar is not finite", ErrInvalidParameter)
		}
	}
	return nil
}
