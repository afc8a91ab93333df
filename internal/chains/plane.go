package chains

import (
	"math"

	"github.com/lumenfold/lumenfold/internal/batch"
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

var triUV = [3][2]float64{{0, 0}, {1, 0}, {0.5, 1}}

// emitPlane writes one plane (its triangles, boundary edges, and skirt)
// into the accumulator. tris are local-space triangles; boundary indexes
// the flattened vertex layout as a cyclic outline ({0,1,2} for a triangle,
// {0,4,1,2} for the stored 6-vertex quad layout).
func emitPlane(acc *batch.Accumulator, s Spec, group geom.Quat, tris [][3]geom.Vec3,
	boundary []int, base params.RGB, thisFade, chainProgress, illum float64, random rng.Stream) {

	noiseScale := 1.2 + 2.4*random()
	noiseStrength := 0.08 + 0.30*random()

	var flat []geom.Vec3
	for _, tri := range tris {
		// Normals rotate with the group but never translate.
		localN := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Norm()
		worldN := group.Rotate(localN)

		for vi, v := range tri {
			world := group.Rotate(v).Add(s.Origin)
			acc.AppendFace(batch.FaceVertex{
				Pos:           world,
				Norm:          worldN,
				U:             triUV[vi][0],
				V:             triUV[vi][1],
				Alpha:         vertexAlpha(s, world),
				Color:         base,
				Opacity:       thisFade * s.FaceAtten.OpacityScale,
				NoiseScale:    noiseScale,
				NoiseStrength: noiseStrength,
				CrackExtend:   1,
				FoldDelay:     chainProgress,
				FoldOrigin:    s.Origin,
			})
		}
		flat = append(flat, tri[0], tri[1], tri[2])
	}

	emitBoundaryEdges(acc, s, group, flat, boundary, base, thisFade, chainProgress)
	emitSkirt(acc, s, group, flat, boundary, base, thisFade, chainProgress, noiseScale, noiseStrength)
}

// vertexAlpha is the per-vertex face alpha: a radial falloff lifted by the
// local light field, with the light factor divided by the density
// attenuation so dense scenes stay legible.
func vertexAlpha(s Spec, world geom.Vec3) float64 {
	d := world.Len()
	lightFactor := 2.5 * s.Lights.Illumination(world)
	if s.FaceAtten.DensityAtten > 0 {
		lightFactor /= s.FaceAtten.DensityAtten
	}
	return math.Exp(-1.5*d*d) * (1 + lightFactor)
}

func emitBoundaryEdges(acc *batch.Accumulator, s Spec, group geom.Quat, flat []geom.Vec3,
	boundary []int, base params.RGB, thisFade, chainProgress float64) {

	for i := range boundary {
		a := flat[boundary[i]]
		b := flat[boundary[(i+1)%len(boundary)]]
		wa := group.Rotate(a).Add(s.Origin)
		wb := group.Rotate(b).Add(s.Origin)
		acc.AppendEdge(
			batch.EdgeVertex{
				Pos:        wa,
				Alpha:      vertexAlpha(s, wa) * 0.8,
				Color:      base,
				Opacity:    thisFade * s.FaceAtten.OpacityScale,
				FoldDelay:  chainProgress,
				FoldOrigin: s.Origin,
			},
			batch.EdgeVertex{
				Pos:        wb,
				Alpha:      vertexAlpha(s, wb) * 0.8,
				Color:      base,
				Opacity:    thisFade * s.FaceAtten.OpacityScale,
				FoldDelay:  chainProgress,
				FoldOrigin: s.Origin,
			},
		)
	}
}

// emitSkirt extrudes a thin ribbon around the plane boundary. Vertices
// shared with the plane carry crackExtend=1; the expanded outer ring
// carries crackExtend=0 and a slightly later fold delay so the crack
// bleeds in after the core.
func emitSkirt(acc *batch.Accumulator, s Spec, group geom.Quat, flat []geom.Vec3,
	boundary []int, base params.RGB, thisFade, chainProgress, noiseScale, noiseStrength float64) {

	n := len(boundary)
	if n < 3 || s.Config.CrackExtendScale <= 1 {
		return
	}

	var centroid geom.Vec3
	for _, bi := range boundary {
		centroid = centroid.Add(flat[bi])
	}
	centroid = centroid.Mul(1 / float64(n))

	core := make([]geom.Vec3, n)
	outer := make([]geom.Vec3, n)
	for i, bi := range boundary {
		core[i] = flat[bi]
		outer[i] = centroid.Add(flat[bi].Sub(centroid).Mul(s.Config.CrackExtendScale))
	}

	outerDelay := chainProgress + skirtDelayLag/math.Max(float64(s.Length), 1)
	planeN := group.Rotate(flat[1].Sub(flat[0]).Cross(flat[2].Sub(flat[0])).Norm())

	vertex := func(v geom.Vec3, crack, delay float64, uvx, uvy float64) batch.FaceVertex {
		world := group.Rotate(v).Add(s.Origin)
		return batch.FaceVertex{
			Pos:           world,
			Norm:          planeN,
			U:             uvx,
			V:             uvy,
			Alpha:         vertexAlpha(s, world) * 0.6,
			Color:         base,
			Opacity:       thisFade * s.FaceAtten.OpacityScale,
			NoiseScale:    noiseScale,
			NoiseStrength: noiseStrength,
			CrackExtend:   crack,
			FoldDelay:     delay,
			FoldOrigin:    s.Origin,
		}
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		// Two triangles per boundary edge: one sharing the core edge, one
		// sharing the outer edge.
		acc.AppendTriangle(
			vertex(core[i], 1, chainProgress, 0, 0),
			vertex(core[j], 1, chainProgress, 1, 0),
			vertex(outer[j], 0, outerDelay, 1, 1),
		)
		acc.AppendTriangle(
			vertex(core[i], 1, chainProgress, 0, 0),
			vertex(outer[j], 0, outerDelay, 1, 1),
			vertex(outer[i], 0, outerDelay, 0, 1),
		)
	}
}
