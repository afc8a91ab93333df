package scene

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/lumenfold/lumenfold/internal/geom"
)

// FlowField is the deterministic direction field realizing the flow-field
// topology. Coherence stretches the field (large scale = large coherent
// regions); the field itself is simplex noise sampled three times with
// fixed offsets to decorrelate the components.
type FlowField struct {
	noise opensimplex.Noise
	scale float64
}

// NewFlowField seeds the field. scale must be positive.
func NewFlowField(seed uint32, scale float64) *FlowField {
	if scale <= 0 {
		scale = 1
	}
	return &FlowField{
		noise: opensimplex.New(int64(seed)),
		scale: scale,
	}
}

// Direction returns the normalised field direction at p.
func (f *FlowField) Direction(p geom.Vec3) geom.Vec3 {
	x := p.X / f.scale
	y := p.Y / f.scale
	z := p.Z / f.scale
	v := geom.Vec3{
		X: f.noise.Eval3(x, y, z),
		Y: f.noise.Eval3(x+31.7, y+31.7, z+31.7),
		Z: f.noise.Eval3(x-47.3, y-47.3, z-47.3),
	}
	if v.Len() < 1e-9 {
		return geom.Vec3{Y: 1}
	}
	return v.Norm()
}
