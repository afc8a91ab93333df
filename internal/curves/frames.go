package curves

import (
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/rng"
)

// Frame is an oriented sample along a curve.
type Frame struct {
	Pos      geom.Vec3
	Tangent  geom.Vec3
	Normal   geom.Vec3
	Binormal geom.Vec3
}

// SampleAlongCurve resamples the curve at regular arc-length spacing and
// returns an oriented frame per sample. Spacing must be positive and the
// curve needs at least two points.
func SampleAlongCurve(c Curve, spacing float64) []Frame {
	if spacing <= 0 || len(c.Points) < 2 {
		return nil
	}

	var frames []Frame
	target := 0.0
	walked := 0.0
	for i := 1; i < len(c.Points); i++ {
		a, b := c.Points[i-1], c.Points[i]
		seg := b.Sub(a)
		segLen := seg.Len()
		if segLen < 1e-12 {
			continue
		}
		for target <= walked+segLen {
			t := (target - walked) / segLen
			pos := a.Lerp(b, t)
			normal := c.Normals[i-1].Lerp(c.Normals[i], t).Norm()
			tangent := seg.Norm()
			frames = append(frames, Frame{
				Pos:      pos,
				Tangent:  tangent,
				Normal:   normal,
				Binormal: tangent.Cross(normal).Norm(),
			})
			target += spacing
		}
		walked += segLen
	}
	return frames
}

// FrameAt returns the frame at normalised arc position u in [0,1].
func FrameAt(c Curve, u float64) (Frame, bool) {
	if len(c.Points) < 2 {
		return Frame{}, false
	}
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	target := u * c.Length
	walked := 0.0
	for i := 1; i < len(c.Points); i++ {
		a, b := c.Points[i-1], c.Points[i]
		segLen := b.Sub(a).Len()
		if walked+segLen >= target && segLen > 1e-12 {
			t := (target - walked) / segLen
			tangent := b.Sub(a).Norm()
			normal := c.Normals[i-1].Lerp(c.Normals[i], t).Norm()
			return Frame{
				Pos:      a.Lerp(b, t),
				Tangent:  tangent,
				Normal:   normal,
				Binormal: tangent.Cross(normal).Norm(),
			}, true
		}
		walked += segLen
	}
	last := len(c.Points) - 1
	tangent := c.Points[last].Sub(c.Points[last-1]).Norm()
	normal := c.Normals[last]
	return Frame{
		Pos:      c.Points[last],
		Tangent:  tangent,
		Normal:   normal,
		Binormal: tangent.Cross(normal).Norm(),
	}, true
}

// DrapingDirection blends the frame's normal and binormal with a small
// random perturbation into a normalised hang direction for geometry
// attached to the curve.
func DrapingDirection(f Frame, spreadFactor float64, random rng.Stream) geom.Vec3 {
	dir := f.Normal.Mul(1 - spreadFactor).
		Add(f.Binormal.Mul(spreadFactor * (random()*2 - 1)))
	dir = dir.Add(geom.Vec3{
		X: (random() - 0.5) * 0.2,
		Y: (random() - 0.5) * 0.2,
		Z: (random() - 0.5) * 0.2,
	})
	if dir.Len() < 1e-9 {
		return f.Normal
	}
	return dir.Norm()
}
