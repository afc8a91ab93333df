package morph

import (
	"github.com/lumenfold/lumenfold/internal/batch"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/scene"
)

// DefaultDuration is the morph cross-fade length in seconds.
const DefaultDuration = 1.0

// Callbacks fire at morph boundaries. Nil fields are skipped. A cancelled
// morph fires neither.
type Callbacks struct {
	Prepared func()
	Complete func()
}

// Morph holds two prepared scenes and interpolates between them. Streams
// are padded to a common vertex count with zero-alpha vertices at prepare
// time, so per-frame evaluation is a straight componentwise lerp.
type Morph struct {
	From, To *scene.Scene

	facesA, facesB batch.FaceStream
	edgesA, edgesB batch.EdgeStream
	dotPlan        Correspondence

	duration float64
	elapsed  float64
	active   bool
	done     bool

	callbacks Callbacks
}

// Prepare builds the morph plan between two assembled scenes and fires
// the prepared callback.
func Prepare(from, to *scene.Scene, duration float64, cb Callbacks) *Morph {
	if duration <= 0 {
		duration = DefaultDuration
	}
	m := &Morph{
		From:      from,
		To:        to,
		facesA:    from.Batches.Faces,
		facesB:    to.Batches.Faces,
		edgesA:    from.Batches.Edges,
		edgesB:    to.Batches.Edges,
		dotPlan:   MatchDots(from.Dots, to.Dots, DefaultMatchDistance),
		duration:  duration,
		active:    true,
		callbacks: cb,
	}
	padFaces(&m.facesA, &m.facesB)
	padEdges(&m.edgesA, &m.edgesB)
	if cb.Prepared != nil {
		cb.Prepared()
	}
	return m
}

// Active reports whether the morph is still running.
func (m *Morph) Active() bool { return m.active }

// T returns the current morph position in [0,1].
func (m *Morph) T() float64 {
	if m.duration <= 0 {
		return 1
	}
	t := m.elapsed / m.duration
	if t > 1 {
		t = 1
	}
	return t
}

// Tick advances the morph by dt seconds and fires the completion callback
// once it crosses the end.
func (m *Morph) Tick(dt float64) {
	if !m.active || m.done {
		return
	}
	m.elapsed += dt
	if m.elapsed >= m.duration {
		m.elapsed = m.duration
		m.done = true
		m.active = false
		if m.callbacks.Complete != nil {
			m.callbacks.Complete()
		}
	}
}

// Cancel stops the morph without firing completion. It returns the
// interpolated (seed, controls) at the cancel point so the host can
// continue from where playback visually is: controls interpolate
// componentwise, the discrete seed snaps at the midpoint. Idempotent.
func (m *Morph) Cancel() (string, params.Controls) {
	t := m.T()
	m.active = false
	m.callbacks = Callbacks{}
	controls := m.From.Controls.Lerp(m.To.Controls, t)
	seed := m.From.Seed
	if t >= 0.5 {
		seed = m.To.Seed
	}
	return seed, controls
}

// Faces returns the interpolated face stream at morphT.
func (m *Morph) Faces(morphT float64) batch.FaceStream {
	return batch.FaceStream{
		Pos:           lerpSlice(m.facesA.Pos, m.facesB.Pos, morphT),
		Norm:          lerpSlice(m.facesA.Norm, m.facesB.Norm, morphT),
		UV:            lerpSlice(m.facesA.UV, m.facesB.UV, morphT),
		Alpha:         lerpSlice(m.facesA.Alpha, m.facesB.Alpha, morphT),
		Color:         lerpSlice(m.facesA.Color, m.facesB.Color, morphT),
		Opacity:       lerpSlice(m.facesA.Opacity, m.facesB.Opacity, morphT),
		NoiseScale:    lerpSlice(m.facesA.NoiseScale, m.facesB.NoiseScale, morphT),
		NoiseStrength: lerpSlice(m.facesA.NoiseStrength, m.facesB.NoiseStrength, morphT),
		CrackExtend:   lerpSlice(m.facesA.CrackExtend, m.facesB.CrackExtend, morphT),
		FoldDelay:     lerpSlice(m.facesA.FoldDelay, m.facesB.FoldDelay, morphT),
		FoldOrigin:    lerpSlice(m.facesA.FoldOrigin, m.facesB.FoldOrigin, morphT),
	}
}

// Edges returns the interpolated edge stream at morphT.
func (m *Morph) Edges(morphT float64) batch.EdgeStream {
	return batch.EdgeStream{
		Pos:        lerpSlice(m.edgesA.Pos, m.edgesB.Pos, morphT),
		Alpha:      lerpSlice(m.edgesA.Alpha, m.edgesB.Alpha, morphT),
		Color:      lerpSlice(m.edgesA.Color, m.edgesB.Color, morphT),
		Opacity:    lerpSlice(m.edgesA.Opacity, m.edgesB.Opacity, morphT),
		FoldDelay:  lerpSlice(m.edgesA.FoldDelay, m.edgesB.FoldDelay, morphT),
		FoldOrigin: lerpSlice(m.edgesA.FoldOrigin, m.edgesB.FoldOrigin, morphT),
	}
}

// Dots returns the blended dot layer at morphT.
func (m *Morph) Dots(morphT float64) []DotInstance {
	return m.dotPlan.BlendDots(m.From.Dots, m.To.Dots, morphT)
}

func lerpSlice(a, b []float32, t float64) []float32 {
	n := len(a)
	out := make([]float32, n)
	tf := float32(t)
	for i := 0; i < n; i++ {
		out[i] = a[i] + (b[i]-a[i])*tf
	}
	return out
}

// padFaces grows the shorter face stream with zero-alpha vertices so the
// streams interpolate index-for-index.
func padFaces(a, b *batch.FaceStream) {
	na, nb := a.VertexCount(), b.VertexCount()
	if na == nb {
		return
	}
	// Pad in whole triangles to keep the triangle invariant.
	pad := func(f *batch.FaceStream, want int) {
		for f.VertexCount() < want {
			f.Pos = append(f.Pos, 0, 0, 0)
			f.Norm = append(f.Norm, 0, 1, 0)
			f.UV = append(f.UV, 0, 0)
			f.Alpha = append(f.Alpha, 0)
			f.Color = append(f.Color, 0, 0, 0)
			f.Opacity = append(f.Opacity, 0)
			f.NoiseScale = append(f.NoiseScale, 0)
			f.NoiseStrength = append(f.NoiseStrength, 0)
			f.CrackExtend = append(f.CrackExtend, 0)
			f.FoldDelay = append(f.FoldDelay, 0)
			f.FoldOrigin = append(f.FoldOrigin, 0, 0, 0)
		}
	}
	want := na
	if nb > want {
		want = nb
	}
	pad(a, want)
	pad(b, want)
}

func padEdges(a, b *batch.EdgeStream) {
	pad := func(e *batch.EdgeStream, want int) {
		for e.VertexCount() < want {
			e.Pos = append(e.Pos, 0, 0, 0)
			e.Alpha = append(e.Alpha, 0)
			e.Color = append(e.Color, 0, 0, 0)
			e.Opacity = append(e.Opacity, 0)
			e.FoldDelay = append(e.FoldDelay, 0)
			e.FoldOrigin = append(e.FoldOrigin, 0, 0, 0)
		}
	}
	want := a.VertexCount()
	if b.VertexCount() > want {
		want = b.VertexCount()
	}
	pad(a, want)
	pad(b, want)
}
