package batch

import (
	"errors"
	"math"
	"testing"

	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
)

func faceVertex(x float64) FaceVertex {
	return FaceVertex{
		Pos:     geom.Vec3{X: x, Y: 0.2, Z: -0.3},
		Norm:    geom.Vec3{Y: 1},
		U:       0.25,
		V:       0.75,
		Alpha:   0.8,
		Color:   params.RGB{R: 0.9, G: 0.4, B: 0.1},
		Opacity: 0.6,
	}
}

func TestAppendTriangleLengthCoherence(t *testing.T) {
	a := New()
	a.AppendTriangle(faceVertex(0), faceVertex(1), faceVertex(2))
	a.AppendTriangle(faceVertex(3), faceVertex(4), faceVertex(5))

	fc := a.Faces.VertexCount()
	if fc != 6 {
		t.Fatalf("vertex count = %d, want 6", fc)
	}
	if len(a.Faces.Pos) != fc*3 {
		t.Errorf("Pos length = %d, want %d", len(a.Faces.Pos), fc*3)
	}
	if len(a.Faces.UV) != fc*2 {
		t.Errorf("UV length = %d, want %d", len(a.Faces.UV), fc*2)
	}
	if len(a.Faces.FoldOrigin) != fc*3 {
		t.Errorf("FoldOrigin length = %d, want %d", len(a.Faces.FoldOrigin), fc*3)
	}
	if err := a.Finalize(); err != nil {
		t.Errorf("Finalize failed: %v", err)
	}
}

func TestAppendFaceClampsOnIngress(t *testing.T) {
	a := New()
	v := faceVertex(0)
	v.Alpha = 2.5
	v.Opacity = -1
	v.Color = params.RGB{R: 3, G: -2, B: 0.5}
	v.CrackExtend = 7
	v.FoldDelay = -0.2
	a.AppendFace(v)

	if got := a.Faces.Alpha[0]; got != 1 {
		t.Errorf("Alpha = %v, want 1", got)
	}
	if got := a.Faces.Opacity[0]; got != 0 {
		t.Errorf("Opacity = %v, want 0", got)
	}
	if a.Faces.Color[0] != 1 || a.Faces.Color[1] != 0 {
		t.Errorf("Color = %v, want clamped to [1 0 ...]", a.Faces.Color[:3])
	}
	if a.Faces.CrackExtend[0] != 1 || a.Faces.FoldDelay[0] != 0 {
		t.Errorf("CrackExtend/FoldDelay = %v/%v", a.Faces.CrackExtend[0], a.Faces.FoldDelay[0])
	}
}

func TestFinalizeRejectsPartialTriangle(t *testing.T) {
	a := New()
	a.AppendFace(faceVertex(0))
	a.AppendFace(faceVertex(1))

	if err := a.Finalize(); !errors.Is(err, ErrRenderFailure) {
		t.Errorf("two dangling vertices: got %v, want ErrRenderFailure", err)
	}
}

func TestFinalizeRejectsNonFinite(t *testing.T) {
	a := New()
	v := faceVertex(0)
	v.Pos.X = math.NaN()
	a.AppendTriangle(v, faceVertex(1), faceVertex(2))

	if err := a.Finalize(); !errors.Is(err, ErrRenderFailure) {
		t.Errorf("NaN position: got %v, want ErrRenderFailure", err)
	}

	b := New()
	e := EdgeVertex{Pos: geom.Vec3{X: math.Inf(1)}, Alpha: 1, Color: params.RGB{R: 1}}
	b.AppendEdge(e, EdgeVertex{Alpha: 1})
	if err := b.Finalize(); !errors.Is(err, ErrRenderFailure) {
		t.Errorf("Inf edge position: got %v, want ErrRenderFailure", err)
	}
}

func TestAppendEdgePairsEndpoints(t *testing.T) {
	a := New()
	a.AppendEdge(
		EdgeVertex{Pos: geom.Vec3{X: 1}, Alpha: 0.5, Color: params.RGB{R: 1}},
		EdgeVertex{Pos: geom.Vec3{X: 2}, Alpha: 0.5, Color: params.RGB{R: 1}},
	)

	if ec := a.Edges.VertexCount(); ec != 2 {
		t.Fatalf("endpoint count = %d, want 2", ec)
	}
	if a.Edges.Pos[0] != 1 || a.Edges.Pos[3] != 2 {
		t.Errorf("endpoint positions = %v", a.Edges.Pos)
	}
	if err := a.Finalize(); err != nil {
		t.Errorf("Finalize failed: %v", err)
	}
}

func TestFinalizeEmptyAccumulator(t *testing.T) {
	if err := New().Finalize(); err != nil {
		t.Errorf("empty accumulator must finalise cleanly: %v", err)
	}
}

func TestAppendAfterFinalizePanics(t *testing.T) {
	a := New()
	if err := a.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("append after Finalize must panic")
		}
	}()
	a.AppendFace(faceVertex(0))
}
