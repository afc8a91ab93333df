// Package batch holds the shared vertex accumulator every scene producer
// appends into: a face stream of non-indexed triangles and an edge stream
// of line-segment endpoints, both as flat parallel float32 arrays ready
// for upload.
package batch

import (
	"errors"
	"fmt"
	"math"

	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
)

// ErrRenderFailure reports a non-finite value surviving into finalised
// buffers. Buffers carrying it are discarded, never shipped.
var ErrRenderFailure = errors.New("render failure")

// FaceVertex is one face-stream entry before flattening.
type FaceVertex struct {
	Pos           geom.Vec3
	Norm          geom.Vec3
	U, V          float64
	Alpha         float64
	Color         params.RGB
	Opacity       float64
	NoiseScale    float64
	NoiseStrength float64
	CrackExtend   float64
	FoldDelay     float64
	FoldOrigin    geom.Vec3
}

// EdgeVertex is one edge-stream endpoint before flattening.
type EdgeVertex struct {
	Pos        geom.Vec3
	Alpha      float64
	Color      params.RGB
	Opacity    float64
	FoldDelay  float64
	FoldOrigin geom.Vec3
}

// FaceStream is the flattened face attribute set. Every array length is a
// fixed multiple of the vertex count; Pos is a multiple of 9 (triangles).
type FaceStream struct {
	Pos           []float32 // 3 per vertex
	Norm          []float32 // 3 per vertex
	UV            []float32 // 2 per vertex
	Alpha         []float32
	Color         []float32 // 3 per vertex
	Opacity       []float32
	NoiseScale    []float32
	NoiseStrength []float32
	CrackExtend   []float32
	FoldDelay     []float32
	FoldOrigin    []float32 // 3 per vertex
}

// VertexCount returns the number of face vertices.
func (f *FaceStream) VertexCount() int { return len(f.Alpha) }

// EdgeStream is the flattened edge attribute set; endpoints pair up into
// segments.
type EdgeStream struct {
	Pos        []float32 // 3 per endpoint
	Alpha      []float32
	Color      []float32 // 3 per endpoint
	Opacity    []float32
	FoldDelay  []float32
	FoldOrigin []float32 // 3 per endpoint
}

// VertexCount returns the number of edge endpoints.
func (e *EdgeStream) VertexCount() int { return len(e.Alpha) }

// Accumulator collects face and edge vertices during a scene build. Not
// safe for concurrent use; the build order is a total order by design.
type Accumulator struct {
	Faces FaceStream
	Edges EdgeStream

	frozen bool
}

// New returns an empty accumulator.
func New() *Accumulator { return &Accumulator{} }

func clamp01f(x float64) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return float32(x)
}

// AppendFace appends one face vertex. Colour, alpha, opacity, crack and
// fold-delay components are clamped to [0,1] on ingress.
func (a *Accumulator) AppendFace(v FaceVertex) {
	if a.frozen {
		panic("batch: append to finalised accumulator")
	}
	f := &a.Faces
	f.Pos = append(f.Pos, float32(v.Pos.X), float32(v.Pos.Y), float32(v.Pos.Z))
	f.Norm = append(f.Norm, float32(v.Norm.X), float32(v.Norm.Y), float32(v.Norm.Z))
	f.UV = append(f.UV, float32(v.U), float32(v.V))
	f.Alpha = append(f.Alpha, clamp01f(v.Alpha))
	c := v.Color.Clamp()
	f.Color = append(f.Color, float32(c.R), float32(c.G), float32(c.B))
	f.Opacity = append(f.Opacity, clamp01f(v.Opacity))
	f.NoiseScale = append(f.NoiseScale, float32(v.NoiseScale))
	f.NoiseStrength = append(f.NoiseStrength, float32(v.NoiseStrength))
	f.CrackExtend = append(f.CrackExtend, clamp01f(v.CrackExtend))
	f.FoldDelay = append(f.FoldDelay, clamp01f(v.FoldDelay))
	f.FoldOrigin = append(f.FoldOrigin, float32(v.FoldOrigin.X), float32(v.FoldOrigin.Y), float32(v.FoldOrigin.Z))
}

// AppendTriangle appends three face vertices.
func (a *Accumulator) AppendTriangle(v0, v1, v2 FaceVertex) {
	a.AppendFace(v0)
	a.AppendFace(v1)
	a.AppendFace(v2)
}

// AppendEdge appends one segment (two endpoints).
func (a *Accumulator) AppendEdge(p, q EdgeVertex) {
	if a.frozen {
		panic("batch: append to finalised accumulator")
	}
	for _, v := range [2]EdgeVertex{p, q} {
		e := &a.Edges
		e.Pos = append(e.Pos, float32(v.Pos.X), float32(v.Pos.Y), float32(v.Pos.Z))
		e.Alpha = append(e.Alpha, clamp01f(v.Alpha))
		c := v.Color.Clamp()
		e.Color = append(e.Color, float32(c.R), float32(c.G), float32(c.B))
		e.Opacity = append(e.Opacity, clamp01f(v.Opacity))
		e.FoldDelay = append(e.FoldDelay, clamp01f(v.FoldDelay))
		e.FoldOrigin = append(e.FoldOrigin, float32(v.FoldOrigin.X), float32(v.FoldOrigin.Y), float32(v.FoldOrigin.Z))
	}
}

// Finalize freezes the accumulator and validates every invariant. A
// non-finite value anywhere fails with ErrRenderFailure and the buffers
// must be discarded.
func (a *Accumulator) Finalize() error {
	a.frozen = true

	fc := a.Faces.VertexCount()
	if len(a.Faces.Pos) != fc*3 || len(a.Faces.Norm) != fc*3 ||
		len(a.Faces.UV) != fc*2 || len(a.Faces.Color) != fc*3 ||
		len(a.Faces.Opacity) != fc || len(a.Faces.NoiseScale) != fc ||
		len(a.Faces.NoiseStrength) != fc || len(a.Faces.CrackExtend) != fc ||
		len(a.Faces.FoldDelay) != fc || len(a.Faces.FoldOrigin) != fc*3 {
		return fmt.Errorf("%w: face stream arrays disagree on vertex count", ErrRenderFailure)
	}
	if len(a.Faces.Pos)%9 != 0 {
		return fmt.Errorf("%w: face positions not a whole number of triangles", ErrRenderFailure)
	}

	ec := a.Edges.VertexCount()
	if ec%2 != 0 {
		return fmt.Errorf("%w: edge endpoints not paired into segments", ErrRenderFailure)
	}
	if len(a.Edges.Pos) != ec*3 || len(a.Edges.Color) != ec*3 ||
		len(a.Edges.Opacity) != ec || len(a.Edges.FoldDelay) != ec ||
		len(a.Edges.FoldOrigin) != ec*3 {
		return fmt.Errorf("%w: edge stream arrays disagree on endpoint count", ErrRenderFailure)
	}

	for name, arr := range map[string][]float32{
		"face.pos": a.Faces.Pos, "face.norm": a.Faces.Norm, "face.uv": a.Faces.UV,
		"face.alpha": a.Faces.Alpha, "face.color": a.Faces.Color,
		"face.opacity": a.Faces.Opacity, "face.noiseScale": a.Faces.NoiseScale,
		"face.noiseStrength": a.Faces.NoiseStrength, "face.crackExtend": a.Faces.CrackExtend,
		"face.foldDelay": a.Faces.FoldDelay, "face.foldOrigin": a.Faces.FoldOrigin,
		"edge.pos": a.Edges.Pos, "edge.alpha": a.Edges.Alpha, "edge.color": a.Edges.Color,
		"edge.opacity": a.Edges.Opacity, "edge.foldDelay": a.Edges.FoldDelay,
		"edge.foldOrigin": a.Edges.FoldOrigin,
	} {
		for _, v := range arr {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: non-finite value in %s", ErrRenderFailure, name)
			}
		}
	}
	return nil
}
