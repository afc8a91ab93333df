// Package envelope implements the signed distance field bounding the
// scene: an asymmetric perturbed ellipsoid with an upper-hemisphere groove
// and a tri-sinusoidal symmetry breaker.
package envelope

import (
	"fmt"
	"math"

	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
)

const (
	grooveDepth = 0.30
	grooveWidth = 0.45

	normalStep     = 0.01
	projectSteps   = 12
	projectEpsilon = 0.001
)

// GoldenAngle is the Fibonacci spiral increment pi*(3-sqrt(5)).
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Envelope is the scene-bounding SDF with radii (rx, ry, rz).
type Envelope struct {
	Radii geom.Vec3
}

// New validates the radii and returns the envelope. Non-positive radii
// fail before any producer runs.
func New(radii geom.Vec3) (*Envelope, error) {
	if radii.X <= 0 || radii.Y <= 0 || radii.Z <= 0 {
		return nil, fmt.Errorf("%w: envelope radii must be positive, got %+v",
			params.ErrInvalidParameter, radii)
	}
	return &Envelope{Radii: radii}, nil
}

// SDF evaluates the field at p. Negative inside. The groove term breaks
// vertical symmetry in the upper hemisphere only (the C1 discontinuity at
// the equator is intentional); the tri-sine term breaks what is left.
func (e *Envelope) SDF(p geom.Vec3) float64 {
	r := e.Radii
	ellipsoid := (p.X*p.X)/(r.X*r.X) + (p.Y*p.Y)/(r.Y*r.Y) + (p.Z*p.Z)/(r.Z*r.Z) - 1

	groove := grooveDepth * math.Exp(-p.X*p.X/(grooveWidth*grooveWidth)) * math.Max(0, p.Y/r.Y)

	wobble := 0.06 *
		math.Sin(1.1*p.X+7.3) *
		math.Sin(1.3*p.Y+2.1) *
		math.Sin(0.9*p.Z+5.7)

	return ellipsoid + groove + wobble
}

// Normal returns the normalised central-difference gradient at p.
func (e *Envelope) Normal(p geom.Vec3) geom.Vec3 {
	return e.gradient(p).Norm()
}

func (e *Envelope) gradient(p geom.Vec3) geom.Vec3 {
	h := normalStep
	return geom.Vec3{
		X: e.SDF(geom.Vec3{X: p.X + h, Y: p.Y, Z: p.Z}) - e.SDF(geom.Vec3{X: p.X - h, Y: p.Y, Z: p.Z}),
		Y: e.SDF(geom.Vec3{X: p.X, Y: p.Y + h, Z: p.Z}) - e.SDF(geom.Vec3{X: p.X, Y: p.Y - h, Z: p.Z}),
		Z: e.SDF(geom.Vec3{X: p.X, Y: p.Y, Z: p.Z + h}) - e.SDF(geom.Vec3{X: p.X, Y: p.Y, Z: p.Z - h}),
	}
}

// Project walks p onto the surface with at most 12 Newton steps along the
// gradient, exiting once |SDF| < 0.001.
func (e *Envelope) Project(p geom.Vec3) geom.Vec3 {
	for i := 0; i < projectSteps; i++ {
		d := e.SDF(p)
		if math.Abs(d) < projectEpsilon {
			break
		}
		g := e.gradient(p)
		gl := g.LenSq()
		if gl < 1e-12 {
			// Degenerate gradient at the exact center; nudge outward.
			p = p.Add(geom.Vec3{X: normalStep})
			continue
		}
		p = p.Sub(g.Mul(d / gl))
	}
	return p
}

// SeedPoints places n points on a Fibonacci spiral over the unit sphere,
// scales them to the ellipsoid axes, and projects each onto the envelope.
func (e *Envelope) SeedPoints(n int) []geom.Vec3 {
	if n <= 0 {
		return nil
	}
	pts := make([]geom.Vec3, 0, n)
	for i := 0; i < n; i++ {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		ring := math.Sqrt(math.Max(0, 1-y*y))
		theta := GoldenAngle * float64(i)
		unit := geom.Vec3{
			X: math.Cos(theta) * ring,
			Y: y,
			Z: math.Sin(theta) * ring,
		}
		scaled := geom.Vec3{
			X: unit.X * e.Radii.X,
			Y: unit.Y * e.Radii.Y,
			Z: unit.Z * e.Radii.Z,
		}
		pts = append(pts, e.Project(scaled))
	}
	return pts
}
