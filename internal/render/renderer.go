package render

import (
	"image"
	"math"

	"github.com/lumenfold/lumenfold/internal/batch"
	"github.com/lumenfold/lumenfold/internal/dots"
	"github.com/lumenfold/lumenfold/internal/ease"
	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/scene"
)

// Supersample is the internal resolution multiplier. Frames accumulate at
// Supersample times the output size and downscale at the end of the post
// chain.
const Supersample = 2

// foldDelaySpread and foldRevealWindow shape the staggered fold reveal:
// a vertex with fold delay d becomes visible over the window
// [d*foldDelaySpread, d*foldDelaySpread+foldRevealWindow] of fold progress.
const (
	foldDelaySpread  = 0.7
	foldRevealWindow = 0.3
)

// FrameState is the per-frame modulation applied on top of an immutable
// scene. All fields come from the timeline evaluator or interactive state.
type FrameState struct {
	FoldProgress float64 // 0 collapsed, 1 fully revealed
	Zoom         float64 // multiplies onto the derived camera distance
	OrbitY       float64 // degrees
	Twinkle      float64
	Dynamism     float64
	Time         float64 // seconds, drives twinkle phase
}

// DefaultFrameState is the fully-revealed static frame.
func DefaultFrameState() FrameState {
	return FrameState{FoldProgress: 1, Zoom: 1}
}

// Renderer rasterises scenes into images. The glow sprite and grain field
// are created once per renderer and released by Close; callers bracket use
// with Close the same way they would a GPU resource handle. A renderer is
// safe for concurrent Render calls; each call accumulates into its own
// buffer.
type Renderer struct {
	width, height int
	glow          *image.RGBA
	grain         *grainField
}

// NewRenderer allocates a renderer for the given output size.
func NewRenderer(width, height int) *Renderer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Renderer{
		width:  width,
		height: height,
		glow:   dots.GlowTexture(),
		grain:  newGrainField(),
	}
}

// Close releases the renderer's resources. The renderer must not be used
// afterwards.
func (r *Renderer) Close() {
	r.glow = nil
	r.grain = nil
}

// Render draws one frame of the scene under the given frame state and
// returns the finished image after the post chain.
func (r *Renderer) Render(s *scene.Scene, fs FrameState) *image.RGBA {
	return r.RenderStreams(s.Uniforms, &s.Batches.Faces, &s.Batches.Edges, s.SphereInst, fs)
}

// RenderStreams draws arbitrary attribute streams under a uniform pack.
// Morph playback renders blended streams through this path; Render is the
// single-scene shorthand.
func (r *Renderer) RenderStreams(u scene.Uniforms, faces *batch.FaceStream,
	edges *batch.EdgeStream, sphereInst []float32, fs FrameState) *image.RGBA {

	if r.glow == nil {
		panic("render: use of closed renderer")
	}
	w := r.width * Supersample
	h := r.height * Supersample
	buf := newFloatBuf(w, h)

	r.drawBackground(buf, u)

	cam := newCamera(u, fs.Zoom, fs.OrbitY, w, h)
	r.drawFaces(buf, faces, cam, fs)
	r.drawEdges(buf, edges, cam, fs)
	r.drawGlows(buf, sphereInst, cam, fs)

	return r.post(buf, u)
}

// drawBackground fills a radial gradient from the inner to the outer
// colour, centred on the frame.
func (r *Renderer) drawBackground(buf *floatBuf, u scene.Uniforms) {
	cx := float64(buf.w) / 2
	cy := float64(buf.h) / 2
	maxR := math.Hypot(cx, cy)
	for y := 0; y < buf.h; y++ {
		for x := 0; x < buf.w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / maxR
			c := u.BgInner.Lerp(u.BgOuter, clamp01(d))
			buf.setAt(x, y, c.R, c.G, c.B)
		}
	}
}

// foldReveal returns the per-vertex reveal fraction for a fold delay.
func foldReveal(progress, delay float64) float64 {
	return ease.Clamp01((progress - delay*foldDelaySpread) / foldRevealWindow)
}

// foldedPos scales a position toward its fold origin by the reveal
// fraction.
func foldedPos(pos, origin geom.Vec3, reveal float64) geom.Vec3 {
	return origin.Add(pos.Sub(origin).Mul(reveal))
}

type projVert struct {
	x, y  float64
	alpha float64
	r, g  float64
	b     float64
	ok    bool
}

func (r *Renderer) drawFaces(buf *floatBuf, f *batch.FaceStream, cam camera, fs FrameState) {
	n := f.VertexCount()
	verts := make([]projVert, 3)
	for base := 0; base+2 < n; base += 3 {
		visible := false
		for k := 0; k < 3; k++ {
			i := base + k
			reveal := foldReveal(fs.FoldProgress, float64(f.FoldDelay[i]))
			pos := geom.Vec3{X: float64(f.Pos[i*3]), Y: float64(f.Pos[i*3+1]), Z: float64(f.Pos[i*3+2])}
			origin := geom.Vec3{X: float64(f.FoldOrigin[i*3]), Y: float64(f.FoldOrigin[i*3+1]), Z: float64(f.FoldOrigin[i*3+2])}
			p := foldedPos(pos, origin, reveal)

			x, y, _, ok := cam.project(p)
			a := float64(f.Alpha[i]) * float64(f.Opacity[i]) * reveal
			verts[k] = projVert{
				x: x, y: y,
				alpha: a,
				r:     float64(f.Color[i*3]),
				g:     float64(f.Color[i*3+1]),
				b:     float64(f.Color[i*3+2]),
				ok:    ok,
			}
			if ok && a > 0 {
				visible = true
			}
		}
		if !visible || !verts[0].ok || !verts[1].ok || !verts[2].ok {
			continue
		}
		fillTriangle(buf, verts[0], verts[1], verts[2])
	}
}

// fillTriangle rasterises with barycentric interpolation and additive
// blending. Winding does not matter; both orientations fill.
func fillTriangle(buf *floatBuf, a, b, c projVert) {
	minX := int(math.Floor(math.Min(a.x, math.Min(b.x, c.x))))
	maxX := int(math.Ceil(math.Max(a.x, math.Max(b.x, c.x))))
	minY := int(math.Floor(math.Min(a.y, math.Min(b.y, c.y))))
	maxY := int(math.Ceil(math.Max(a.y, math.Max(b.y, c.y))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= buf.w {
		maxX = buf.w - 1
	}
	if maxY >= buf.h {
		maxY = buf.h - 1
	}

	area := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	if math.Abs(area) < 1e-9 {
		return
	}
	inv := 1 / area

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := ((b.x-px)*(c.y-py) - (c.x-px)*(b.y-py)) * inv
			w1 := ((c.x-px)*(a.y-py) - (a.x-px)*(c.y-py)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			alpha := w0*a.alpha + w1*b.alpha + w2*c.alpha
			if alpha <= 0 {
				continue
			}
			buf.addAt(x, y,
				(w0*a.r+w1*b.r+w2*c.r)*alpha,
				(w0*a.g+w1*b.g+w2*c.g)*alpha,
				(w0*a.b+w1*b.b+w2*c.b)*alpha)
		}
	}
}

func (r *Renderer) drawEdges(buf *floatBuf, e *batch.EdgeStream, cam camera, fs FrameState) {
	n := e.VertexCount()
	for base := 0; base+1 < n; base += 2 {
		var pts [2]projVert
		visible := false
		for k := 0; k < 2; k++ {
			i := base + k
			reveal := foldReveal(fs.FoldProgress, float64(e.FoldDelay[i]))
			pos := geom.Vec3{X: float64(e.Pos[i*3]), Y: float64(e.Pos[i*3+1]), Z: float64(e.Pos[i*3+2])}
			origin := geom.Vec3{X: float64(e.FoldOrigin[i*3]), Y: float64(e.FoldOrigin[i*3+1]), Z: float64(e.FoldOrigin[i*3+2])}
			p := foldedPos(pos, origin, reveal)

			x, y, _, ok := cam.project(p)
			a := float64(e.Alpha[i]) * float64(e.Opacity[i]) * reveal
			pts[k] = projVert{
				x: x, y: y, alpha: a,
				r: float64(e.Color[i*3]), g: float64(e.Color[i*3+1]), b: float64(e.Color[i*3+2]),
				ok: ok,
			}
			if ok && a > 0 {
				visible = true
			}
		}
		if !visible || !pts[0].ok || !pts[1].ok {
			continue
		}
		drawLine(buf, pts[0], pts[1])
	}
}

// drawLine draws an additively-blended segment with attributes lerped
// along its length.
func drawLine(buf *floatBuf, a, b projVert) {
	steps := int(math.Ceil(math.Max(math.Abs(b.x-a.x), math.Abs(b.y-a.y))))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		alpha := a.alpha + (b.alpha-a.alpha)*t
		if alpha <= 0 {
			continue
		}
		x := int(a.x + (b.x-a.x)*t)
		y := int(a.y + (b.y-a.y)*t)
		buf.addAt(x, y,
			(a.r+(b.r-a.r)*t)*alpha,
			(a.g+(b.g-a.g)*t)*alpha,
			(a.b+(b.b-a.b)*t)*alpha)
	}
}

// drawGlows splats the glow sprite for every dot instance. Twinkle
// modulates intensity with a per-dot phase derived from position, so the
// flicker pattern is stable across frames.
func (r *Renderer) drawGlows(buf *floatBuf, inst []float32, cam camera, fs FrameState) {
	const stride = 8
	reveal := ease.Clamp01(fs.FoldProgress)
	if reveal <= 0 {
		return
	}
	for off := 0; off+stride <= len(inst); off += stride {
		p := geom.Vec3{X: float64(inst[off]), Y: float64(inst[off+1]), Z: float64(inst[off+2])}
		size := float64(inst[off+3])
		intensity := float64(inst[off+4]) * reveal
		cr := float64(inst[off+5])
		cg := float64(inst[off+6])
		cb := float64(inst[off+7])

		if fs.Twinkle > 0 {
			phase := (p.X*12.9898 + p.Y*78.233 + p.Z*37.719) * 43758.5453
			phase -= math.Floor(phase/(2*math.Pi)) * 2 * math.Pi
			intensity *= 1 + 0.5*fs.Twinkle*math.Sin(fs.Time*3+phase)
		}
		if intensity <= 0 {
			continue
		}

		x, y, scale, ok := cam.project(p)
		if !ok {
			continue
		}
		r.splatGlow(buf, x, y, size*scale, intensity, cr, cg, cb)
	}
}

// splatGlow samples the glow sprite across a screen-space disc and adds
// its tinted contribution.
func (r *Renderer) splatGlow(buf *floatBuf, cx, cy, radius, intensity, cr, cg, cb float64) {
	if radius < 0.5 {
		radius = 0.5
	}
	minX := int(math.Floor(cx - radius))
	maxX := int(math.Ceil(cx + radius))
	minY := int(math.Floor(cy - radius))
	maxY := int(math.Ceil(cy + radius))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= buf.w {
		maxX = buf.w - 1
	}
	if maxY >= buf.h {
		maxY = buf.h - 1
	}
	half := float64(dots.GlowSize) / 2
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			u := (float64(x) + 0.5 - cx) / radius
			v := (float64(y) + 0.5 - cy) / radius
			if u*u+v*v > 1 {
				continue
			}
			tx := int(half + u*half)
			ty := int(half + v*half)
			if tx < 0 {
				tx = 0
			}
			if ty < 0 {
				ty = 0
			}
			if tx >= dots.GlowSize {
				tx = dots.GlowSize - 1
			}
			if ty >= dots.GlowSize {
				ty = dots.GlowSize - 1
			}
			g := float64(r.glow.Pix[r.glow.PixOffset(tx, ty)]) / 255
			if g <= 0 {
				continue
			}
			k := g * intensity
			buf.addAt(x, y, cr*k, cg*k, cb*k)
		}
	}
}
