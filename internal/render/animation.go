package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/lumenfold/lumenfold/internal/morph"
	"github.com/lumenfold/lumenfold/internal/scene"
	"github.com/lumenfold/lumenfold/internal/timeline"
)

// AnimationJob renders timeline frames to numbered PNGs. It implements the
// worker pool's FrameRenderer, so frames can render in parallel; scenes
// and morph plans are cached per (seed, controls) payload and shared
// across workers.
type AnimationJob struct {
	Timeline *timeline.Timeline
	OutDir   string
	Renderer *Renderer

	mu     sync.Mutex
	scenes map[string]*scene.Scene
	morphs map[string]*morph.Morph
}

// NewAnimationJob validates the timeline and prepares a job writing frames
// into outDir.
func NewAnimationJob(tl *timeline.Timeline, outDir string) (*AnimationJob, error) {
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}
	w, h := tl.Settings.Width, tl.Settings.Height
	if w <= 0 {
		w = 1080
	}
	if h <= 0 {
		h = 1080
	}
	return &AnimationJob{
		Timeline: tl,
		OutDir:   outDir,
		Renderer: NewRenderer(w, h),
		scenes:   map[string]*scene.Scene{},
		morphs:   map[string]*morph.Morph{},
	}, nil
}

// FrameCount is the total number of frames for the timeline.
func (j *AnimationJob) FrameCount() int {
	return int(j.Timeline.TotalDuration()*j.Timeline.Settings.FPS) + 1
}

// Close releases the job's renderer.
func (j *AnimationJob) Close() {
	j.Renderer.Close()
}

// RenderFrame renders frame index i at t = i/fps and writes it to disk.
func (j *AnimationJob) RenderFrame(ctx context.Context, frame int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t := float64(frame) / j.Timeline.Settings.FPS
	st, err := j.Timeline.Evaluate(t)
	if err != nil {
		return "", err
	}

	fs := FrameState{
		FoldProgress: st.FoldProgress,
		Zoom:         st.Zoom,
		OrbitY:       st.OrbitY,
		Twinkle:      st.Twinkle,
		Dynamism:     st.Dynamism,
		Time:         t,
	}

	img, err := j.renderState(st, fs)
	if err != nil {
		return "", err
	}

	path := filepath.Join(j.OutDir, fmt.Sprintf("frame_%05d.png", frame))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode frame %d: %w", frame, err)
	}
	return path, nil
}

func (j *AnimationJob) renderState(st timeline.State, fs FrameState) (*image.RGBA, error) {
	if st.EventType == timeline.EventTransition && st.MorphFrom != nil && st.MorphTo != nil &&
		(st.MorphFrom.Seed != st.MorphTo.Seed || st.MorphFrom.Controls != st.MorphTo.Controls) {
		return j.renderMorphFrame(st, fs)
	}

	sc, err := j.sceneFor(st.Seed, st)
	if err != nil {
		return nil, err
	}
	return j.Renderer.Render(sc, fs), nil
}

func (j *AnimationJob) renderMorphFrame(st timeline.State, fs FrameState) (*image.RGBA, error) {
	from, err := j.sceneForRef(*st.MorphFrom)
	if err != nil {
		return nil, err
	}
	to, err := j.sceneForRef(*st.MorphTo)
	if err != nil {
		return nil, err
	}

	m := j.morphFor(from, to)
	faces := m.Faces(st.MorphT)
	edges := m.Edges(st.MorphT)
	inst := packMorphDots(m.Dots(st.MorphT))
	u := blendUniforms(from.Uniforms, to.Uniforms, st.MorphT)

	return j.Renderer.RenderStreams(u, &faces, &edges, inst, fs), nil
}

func (j *AnimationJob) sceneFor(seed string, st timeline.State) (*scene.Scene, error) {
	return j.sceneForRef(timeline.ConfigRef{Controls: st.Controls, Seed: seed})
}

func (j *AnimationJob) sceneForRef(ref timeline.ConfigRef) (*scene.Scene, error) {
	key := fmt.Sprintf("%s|%+v", ref.Seed, ref.Controls)

	j.mu.Lock()
	sc, ok := j.scenes[key]
	j.mu.Unlock()
	if ok {
		return sc, nil
	}

	sc, err := scene.Build(ref.Seed, ref.Controls)
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	if existing, ok := j.scenes[key]; ok {
		sc = existing
	} else {
		j.scenes[key] = sc
	}
	j.mu.Unlock()
	return sc, nil
}

func (j *AnimationJob) morphFor(from, to *scene.Scene) *morph.Morph {
	key := from.Seed + "\x00" + to.Seed + "\x00" + fmt.Sprintf("%+v|%+v", from.Controls, to.Controls)

	j.mu.Lock()
	defer j.mu.Unlock()
	if m, ok := j.morphs[key]; ok {
		return m
	}
	m := morph.Prepare(from, to, morph.DefaultDuration, morph.Callbacks{})
	j.morphs[key] = m
	return m
}

func packMorphDots(instances []morph.DotInstance) []float32 {
	out := make([]float32, 0, len(instances)*8)
	for _, di := range instances {
		d := di.Dot
		out = append(out,
			float32(d.Pos.X), float32(d.Pos.Y), float32(d.Pos.Z),
			float32(d.Size), float32(d.Intensity),
			float32(d.Color.R), float32(d.Color.G), float32(d.Color.B),
		)
	}
	return out
}

// blendUniforms interpolates the continuous uniform fields; the discrete
// light set snaps at the midpoint.
func blendUniforms(a, b scene.Uniforms, t float64) scene.Uniforms {
	lerp := func(x, y float64) float64 { return x + (y-x)*t }
	u := scene.Uniforms{
		Lights:              a.Lights,
		BgInner:             a.BgInner.Lerp(b.BgInner, t),
		BgOuter:             a.BgOuter.Lerp(b.BgOuter, t),
		CameraZ:             lerp(a.CameraZ, b.CameraZ),
		CameraFov:           lerp(a.CameraFov, b.CameraFov),
		CameraOffsetX:       lerp(a.CameraOffsetX, b.CameraOffsetX),
		CameraOffsetY:       lerp(a.CameraOffsetY, b.CameraOffsetY),
		BloomStrength:       lerp(a.BloomStrength, b.BloomStrength),
		BloomThreshold:      lerp(a.BloomThreshold, b.BloomThreshold),
		ChromaticAberration: lerp(a.ChromaticAberration, b.ChromaticAberration),
		VignetteStrength:    lerp(a.VignetteStrength, b.VignetteStrength),
		DensityScale:        lerp(a.DensityScale, b.DensityScale),
		LumScale:            lerp(a.LumScale, b.LumScale),
		FlowScale:           lerp(a.FlowScale, b.FlowScale),
		FlowInfluence:       lerp(a.FlowInfluence, b.FlowInfluence),
	}
	if t >= 0.5 {
		u.Lights = b.Lights
	}
	return u
}
