package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/scene"
)

func testUniforms() scene.Uniforms {
	return scene.Uniforms{
		BgInner:        params.RGB{R: 0.05, G: 0.05, B: 0.08},
		BgOuter:        params.RGB{R: 0.01, G: 0.01, B: 0.02},
		CameraZ:        3.2,
		CameraFov:      40,
		BloomStrength:  1.0,
		BloomThreshold: 0.6,
	}
}

func TestCameraProjectsCenter(t *testing.T) {
	cam := newCamera(testUniforms(), 1, 0, 200, 100)

	x, y, scale, ok := cam.project(geom.Vec3{})
	if !ok {
		t.Fatal("origin not visible")
	}
	if math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("origin projected to (%v,%v), want frame centre (100,50)", x, y)
	}
	if scale <= 0 {
		t.Errorf("scale = %v", scale)
	}
}

func TestCameraNearClip(t *testing.T) {
	cam := newCamera(testUniforms(), 1, 0, 200, 100)
	if _, _, _, ok := cam.project(geom.Vec3{Z: 10}); ok {
		t.Error("point behind the near plane projected")
	}
}

func TestCameraZoomScales(t *testing.T) {
	u := testUniforms()
	near := newCamera(u, 2, 0, 200, 100)
	far := newCamera(u, 0.5, 0, 200, 100)

	_, _, sNear, _ := near.project(geom.Vec3{})
	_, _, sFar, _ := far.project(geom.Vec3{})
	if sNear <= sFar {
		t.Errorf("zoom 2 scale %v not above zoom 0.5 scale %v", sNear, sFar)
	}

	// Non-positive zoom falls back to 1.
	def := newCamera(u, 0, 0, 200, 100)
	base := newCamera(u, 1, 0, 200, 100)
	_, _, sDef, _ := def.project(geom.Vec3{})
	_, _, sBase, _ := base.project(geom.Vec3{})
	if math.Abs(sDef-sBase) > 1e-12 {
		t.Errorf("zoom 0 scale %v, want baseline %v", sDef, sBase)
	}
}

func TestCameraOrbitMovesOffAxisPoints(t *testing.T) {
	u := testUniforms()
	flat := newCamera(u, 1, 0, 200, 100)
	turned := newCamera(u, 1, 45, 200, 100)

	p := geom.Vec3{X: 0.5}
	x0, _, _, _ := flat.project(p)
	x1, _, _, _ := turned.project(p)
	if math.Abs(x0-x1) < 1e-6 {
		t.Error("orbit left an off-axis point in place")
	}

	// Points on the Y axis are orbit-invariant.
	y0x, y0y, _, _ := flat.project(geom.Vec3{Y: 0.5})
	y1x, y1y, _, _ := turned.project(geom.Vec3{Y: 0.5})
	if math.Abs(y0x-y1x) > 1e-9 || math.Abs(y0y-y1y) > 1e-9 {
		t.Error("orbit moved a point on its own axis")
	}
}

func TestFoldReveal(t *testing.T) {
	if got := foldReveal(1, 1); got != 1 {
		t.Errorf("full progress reveal = %v, want 1", got)
	}
	if got := foldReveal(0, 0.5); got != 0 {
		t.Errorf("zero progress reveal = %v, want 0", got)
	}

	// A vertex with delay d starts revealing at progress d*0.7.
	if got := foldReveal(0.69, 1); got != 0 {
		t.Errorf("pre-window reveal = %v, want 0", got)
	}
	if got := foldReveal(0.85, 1); got <= 0 || got >= 1 {
		t.Errorf("mid-window reveal = %v, want in (0,1)", got)
	}

	// Earlier delays reveal sooner.
	if foldReveal(0.4, 0.2) <= foldReveal(0.4, 0.9) {
		t.Error("later delay revealed before an earlier one")
	}
}

func TestFoldedPos(t *testing.T) {
	pos := geom.Vec3{X: 2, Y: 2}
	origin := geom.Vec3{X: 1, Y: 1}

	if got := foldedPos(pos, origin, 0); got != origin {
		t.Errorf("reveal 0 = %+v, want the origin", got)
	}
	if got := foldedPos(pos, origin, 1); got != pos {
		t.Errorf("reveal 1 = %+v, want the position", got)
	}
	mid := foldedPos(pos, origin, 0.5)
	if math.Abs(mid.X-1.5) > 1e-12 || math.Abs(mid.Y-1.5) > 1e-12 {
		t.Errorf("reveal 0.5 = %+v", mid)
	}
}

func TestTonemapMonotoneAndBounded(t *testing.T) {
	prev := -1.0
	for _, v := range []float64{0, 0.1, 0.5, 1, 2, 5, 20, 1000} {
		got := tonemap(v)
		if got < 0 || got > 1 {
			t.Fatalf("tonemap(%v) = %v outside [0,1]", v, got)
		}
		if got < prev {
			t.Fatalf("tonemap not monotone at %v", v)
		}
		prev = got
	}
	if tonemap(-3) != 0 {
		t.Error("negative input must map to 0")
	}
}

func TestFloatBufBounds(t *testing.T) {
	buf := newFloatBuf(4, 4)
	buf.addAt(-1, 0, 1, 1, 1)
	buf.addAt(0, -1, 1, 1, 1)
	buf.addAt(4, 0, 1, 1, 1)
	buf.addAt(0, 4, 1, 1, 1)
	for i, v := range buf.R {
		if v != 0 {
			t.Fatalf("out-of-bounds write landed at %d: %v", i, v)
		}
	}

	buf.addAt(2, 3, 0.25, 0, 0)
	buf.addAt(2, 3, 0.25, 0, 0)
	if got := buf.R[buf.idx(2, 3)]; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("additive accumulation = %v, want 0.5", got)
	}
}

func TestRendererSmokeDeterministic(t *testing.T) {
	sc, err := scene.Build("render-smoke", params.DefaultControls())
	if err != nil {
		t.Fatalf("scene.Build failed: %v", err)
	}

	r := NewRenderer(64, 64)
	defer r.Close()

	a := r.Render(sc, DefaultFrameState())
	b := r.Render(sc, DefaultFrameState())

	if got := a.Bounds(); got.Dx() != 64 || got.Dy() != 64 {
		t.Fatalf("output bounds = %v", got)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("identical renders produced different pixels")
	}

	// A fully revealed frame must differ from a collapsed one.
	collapsed := r.Render(sc, FrameState{FoldProgress: 0, Zoom: 1})
	if bytes.Equal(a.Pix, collapsed.Pix) {
		t.Error("fold progress had no visible effect")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, a); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
}

func TestRendererTwinkleModulates(t *testing.T) {
	sc, err := scene.Build("render-twinkle", params.DefaultControls())
	if err != nil {
		t.Fatalf("scene.Build failed: %v", err)
	}

	r := NewRenderer(48, 48)
	defer r.Close()

	still := r.Render(sc, DefaultFrameState())
	fs := DefaultFrameState()
	fs.Twinkle = 1
	fs.Time = 0.7
	twinkled := r.Render(sc, fs)

	if bytes.Equal(still.Pix, twinkled.Pix) {
		t.Error("twinkle had no visible effect")
	}
}

func TestRendererClosedPanics(t *testing.T) {
	sc, err := scene.Build("render-closed", params.DefaultControls())
	if err != nil {
		t.Fatalf("scene.Build failed: %v", err)
	}
	r := NewRenderer(16, 16)
	r.Close()

	defer func() {
		if recover() == nil {
			t.Error("render on a closed renderer must panic")
		}
	}()
	r.Render(sc, DefaultFrameState())
}
