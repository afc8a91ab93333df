package geom

import "math"

// Quat is a rotation quaternion (w + xi + yj + zk).
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat { return Quat{W: 1} }

// QuatFromAxisAngle builds a rotation of angle radians about the unit axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	half := angle * 0.5
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// QuatFromEuler composes intrinsic rotations about X, then Y, then Z.
func QuatFromEuler(x, y, z float64) Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, x)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, y)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, z)
	return qz.Mul(qy).Mul(qx)
}

// LookAlong returns a rotation taking the +Z axis onto the unit direction
// forward. up disambiguates the roll; it must not be parallel to forward.
func LookAlong(forward, up Vec3) Quat {
	f := forward.Norm()
	r := up.Cross(f).Norm()
	u := f.Cross(r)

	// Rotation matrix columns (r, u, f) to quaternion, stable branch per
	// largest diagonal element.
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{W: s / 4, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{W: (m21 - m12) / s, X: s / 4, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: s / 4, Z: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: s / 4}
	}
	return q.Norm()
}

// Mul composes two rotations; the receiver is applied second.
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
	}
}

// Norm returns the unit quaternion; identity when the norm is zero.
func (q Quat) Norm() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	s := q.W
	return u.Mul(2 * u.Dot(v)).
		Add(v.Mul(s*s - u.Dot(u))).
		Add(u.Cross(v).Mul(2 * s))
}

// Forward returns the rotated +Z axis.
func (q Quat) Forward() Vec3 { return q.Rotate(Vec3{Z: 1}) }

// Up returns the rotated +Y axis.
func (q Quat) Up() Vec3 { return q.Rotate(Vec3{Y: 1}) }
