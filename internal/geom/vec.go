// Package geom provides the small 3D vector and quaternion algebra shared
// by the scene producers.
package geom

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of two vectors.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the Euclidean length of the vector.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSq returns the squared length, avoiding the square root.
func (v Vec3) LenSq() float64 { return v.Dot(v) }

// Norm returns a unit-length version of the vector. The zero vector is
// returned unchanged.
func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Lerp interpolates componentwise between a and b without clamping t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Dist returns the distance between two points.
func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Len() }

// DistSq returns the squared distance between two points.
func (a Vec3) DistSq(b Vec3) float64 { return a.Sub(b).LenSq() }

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// ProjectOnPlane removes the component of v along the unit normal n,
// leaving the tangent-plane part.
func (v Vec3) ProjectOnPlane(n Vec3) Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// RotateAbout rotates v about the unit axis by angle radians (Rodrigues).
func (v Vec3) RotateAbout(axis Vec3, angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return v.Mul(c).
		Add(axis.Cross(v).Mul(s)).
		Add(axis.Mul(axis.Dot(v) * (1 - c)))
}

// ReflectAcrossLine reflects point across the line through linePoint with
// unit direction lineDir: linePoint + 2*proj - toP.
func ReflectAcrossLine(point, linePoint, lineDir Vec3) Vec3 {
	toP := point.Sub(linePoint)
	proj := lineDir.Mul(toP.Dot(lineDir))
	return linePoint.Add(proj.Mul(2)).Sub(toP)
}
