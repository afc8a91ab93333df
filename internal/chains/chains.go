// Package chains emits the folding-chain geometry: sequences of triangles
// and quads joined by slightly-off-flat dihedral folds, each plane wrapped
// in a skirt that lets procedural cracks bleed past its boundary.
package chains

import (
	"math"

	"github.com/lumenfold/lumenfold/internal/batch"
	"github.com/lumenfold/lumenfold/internal/dots"
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

const (
	twistHalfRange  = math.Pi / 4
	wobbleHalfRange = 0.09 * math.Pi

	quadJitterScale   = 0.015
	anchorJitterScale = 0.3 // A and B jitter gentler than C and D

	dihedralMin = 0.02
	dihedralMax = 0.10

	contractMin = 0.92
	contractMax = 1.04

	// Skirt outer vertices fold in slightly after the plane core.
	skirtDelayLag = 0.3
)

// Spec describes one chain emission.
type Spec struct {
	Origin         geom.Vec3
	Length         int
	PlaneScale     float64
	DistFromCenter float64
	Lights         dots.LightSet
	Config         params.ChainConfig
	Palette        params.Palette
	FaceAtten      FaceAttenuation
	// FamilyHue pins the chain's hue when >= 0.
	FamilyHue float64
	// TendrilDir orients the chain along a flow direction when non-nil;
	// otherwise the orientation is uniformly random.
	TendrilDir *geom.Vec3
}

// FaceAttenuation carries the density-derived opacity compensators.
type FaceAttenuation struct {
	DensityAtten float64 // divides the light factor
	OpacityScale float64 // multiplies face and edge opacity
}

func randomUnit(random rng.Stream) geom.Vec3 {
	z := random()*2 - 1
	theta := random() * 2 * math.Pi
	ring := math.Sqrt(math.Max(0, 1-z*z))
	return geom.Vec3{X: math.Cos(theta) * ring, Y: z, Z: math.Sin(theta) * ring}
}

// orientation builds the chain's group rotation. A tendril direction gets
// a look-at with randomized twist and wobble; otherwise random Euler.
func orientation(s Spec, random rng.Stream) geom.Quat {
	if s.TendrilDir == nil {
		return geom.QuatFromEuler(
			random()*2*math.Pi,
			random()*2*math.Pi,
			random()*2*math.Pi,
		)
	}
	dir := s.TendrilDir.Norm()
	up := geom.Vec3{Y: 1}
	if math.Abs(dir.Y) > 0.9 {
		up = geom.Vec3{X: 1}
	}
	q := geom.LookAlong(dir, up)

	twist := geom.QuatFromAxisAngle(q.Forward(), random.Signed(twistHalfRange))
	wobbleAxis := q.Up().Cross(q.Forward())
	if wobbleAxis.Len() < 1e-9 {
		wobbleAxis = geom.Vec3{X: 1}
	}
	wobble := geom.QuatFromAxisAngle(wobbleAxis.Norm(), random.Signed(wobbleHalfRange))
	return twist.Mul(wobble).Mul(q)
}

// Emit appends one folding chain to the accumulator.
func Emit(acc *batch.Accumulator, s Spec, random rng.Stream) {
	if s.Length < 1 || s.PlaneScale <= 0 {
		return
	}
	group := orientation(s, random)

	// First plane: three independent random vertices, no coplanarity
	// enforced beyond the triangle itself.
	vA := randomUnit(random).Mul(s.PlaneScale * (0.3 + 0.4*random()))
	vB := randomUnit(random).Mul(s.PlaneScale * (0.3 + 0.4*random()))
	vC := randomUnit(random).Mul(s.PlaneScale * (0.3 + 0.4*random()))

	for p := 0; p < s.Length; p++ {
		chainProgress := float64(p) / math.Max(float64(s.Length-1), 1)
		progressFade := 1 - 0.7*chainProgress
		thisFade := math.Exp(-s.Config.DecayRate*s.DistFromCenter*s.DistFromCenter) * progressFade

		centroid := vA.Add(vB).Add(vC).Mul(1.0 / 3.0)
		worldCentroid := group.Rotate(centroid).Add(s.Origin)
		illum := s.Lights.Illumination(worldCentroid)
		base := s.Palette.Pick(s.DistFromCenter+0.1*float64(p), s.Config.DecayRate, illum*0.15, s.FamilyHue)

		jitterAmt := quadJitterScale * s.PlaneScale
		if random.Chance(s.Config.QuadProbability) {
			// Quad: reflect C through the AB midpoint, jitter all four
			// (the anchors A and B more gently). The two triangles tile
			// across the shared AB diagonal.
			mid := vA.Add(vB).Mul(0.5)
			vD := mid.Mul(2).Sub(vC)
			a := jitter(vA, jitterAmt*anchorJitterScale, random)
			b := jitter(vB, jitterAmt*anchorJitterScale, random)
			c := jitter(vC, jitterAmt, random)
			d := jitter(vD, jitterAmt, random)
			emitPlane(acc, s, group, [][3]geom.Vec3{{a, b, c}, {a, d, b}},
				[]int{0, 4, 1, 2}, base, thisFade, chainProgress, illum, random)
		} else {
			a := jitter(vA, jitterAmt, random)
			b := jitter(vB, jitterAmt, random)
			c := jitter(vC, jitterAmt, random)
			emitPlane(acc, s, group, [][3]geom.Vec3{{a, b, c}},
				[]int{0, 1, 2}, base, thisFade, chainProgress, illum, random)
		}

		vA, vB, vC = hinge(vA, vB, vC, s.Config, random)
	}
}

func jitter(v geom.Vec3, amt float64, random rng.Stream) geom.Vec3 {
	return geom.Vec3{
		X: v.X + random.Signed(amt),
		Y: v.Y + random.Signed(amt),
		Z: v.Z + random.Signed(amt),
	}
}

// hinge picks one of the three edges, reflects the free vertex across the
// edge line, opens a small signed dihedral about the edge, then contracts
// the next generation toward its centroid. The contraction produces the
// inward-spiralling shape.
func hinge(vA, vB, vC geom.Vec3, cfg params.ChainConfig, random rng.Stream) (geom.Vec3, geom.Vec3, geom.Vec3) {
	var e0, e1, free geom.Vec3
	switch r := random(); {
	case r < 0.2:
		e0, e1, free = vA, vB, vC
	case r < 0.6:
		e0, e1, free = vA, vC, vB
	default:
		e0, e1, free = vB, vC, vA
	}

	edgeDir := e1.Sub(e0)
	if edgeDir.Len() < 1e-9 {
		edgeDir = geom.Vec3{X: 1}
	}
	edgeDir = edgeDir.Norm()

	reflected := geom.ReflectAcrossLine(free, e0, edgeDir)

	angle := dihedralMin + (dihedralMax-dihedralMin)*random()
	if random.Chance(0.5) {
		angle = -angle
	}
	next := e0.Add(reflected.Sub(e0).RotateAbout(edgeDir, angle))

	nA, nB, nC := e0, e1, next
	centroid := nA.Add(nB).Add(nC).Mul(1.0 / 3.0)
	k := contractMin + (contractMax-contractMin)*random()
	nA = centroid.Add(nA.Sub(centroid).Mul(k))
	nB = centroid.Add(nB.Sub(centroid).Mul(k))
	nC = centroid.Add(nC.Sub(centroid).Mul(k))
	return nA, nB, nC
}
