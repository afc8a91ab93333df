package timeline

import (
	"sort"

	"github.com/lumenfold/lumenfold/internal/ease"
	"github.com/lumenfold/lumenfold/internal/params"
)

// ConfigRef is a (controls, seed) payload reference.
type ConfigRef struct {
	Controls params.Controls
	Seed     string
}

// State is the evaluated playback state at one absolute time.
type State struct {
	Time         float64
	FoldProgress float64
	EventType    EventType

	Controls params.Controls
	Seed     string

	// Morph fields are populated inside transition events.
	MorphT    float64
	MorphFrom *ConfigRef
	MorphTo   *ConfigRef

	// Camera composition over the 1.0 / 0 baselines.
	Zoom   float64
	OrbitY float64

	// Parameter tracks sum; focus tracks average.
	Twinkle    float64
	Dynamism   float64
	FocalDepth float64
	BlurAmount float64
}

func (e Event) easing() ease.Easing {
	if e.Easing == "" {
		return ease.DefaultEasing
	}
	return e.Easing
}

// progress applies the segment time warp and the event easing to local u.
func (e Event) progress(u float64) float64 {
	return e.easing().Apply(ease.WarpSegmentT(u, ease.TimeWarpStrength))
}

// Evaluate resolves the playback state at absolute time t (seconds).
// t is clamped to [0, TotalDuration].
func (tl *Timeline) Evaluate(t float64) (State, error) {
	if len(tl.Events) == 0 {
		return State{}, ErrEmptyTimeline
	}

	total := tl.TotalDuration()
	if t < 0 {
		t = 0
	}
	if t > total {
		t = total
	}

	starts := make([]float64, len(tl.Events))
	acc := 0.0
	for i, e := range tl.Events {
		starts[i] = acc
		acc += e.Duration
	}

	// Binary search for the active event: the last event whose start is
	// <= t (the final event owns t == total).
	idx := sort.Search(len(starts), func(i int) bool { return starts[i] > t }) - 1
	if idx < 0 {
		idx = 0
	}
	ev := tl.Events[idx]
	u := ease.Clamp01((t - starts[idx]) / ev.Duration)

	st := State{Time: t, EventType: ev.Type, Zoom: 1}

	switch ev.Type {
	case EventExpand:
		st.FoldProgress = ev.progress(u)
		st.Controls = ev.Controls
		st.Seed = ev.Seed

	case EventPause:
		st.FoldProgress = 1
		if ref := tl.lastNonPauseBefore(idx); ref != nil {
			st.Controls = ref.Controls
			st.Seed = ref.Seed
		}

	case EventTransition:
		st.FoldProgress = 1
		st.MorphT = ev.progress(u)
		from := tl.lastNonPauseBefore(idx)
		if from == nil {
			from = &ConfigRef{Controls: ev.Controls, Seed: ev.Seed}
		}
		st.MorphFrom = from
		st.MorphTo = &ConfigRef{Controls: ev.Controls, Seed: ev.Seed}
		// Downstream lookups track the target.
		st.Controls = ev.Controls
		st.Seed = ev.Seed

	case EventCollapse:
		st.FoldProgress = 1 - ev.progress(u)
		if ref := tl.lastNonCollapseBefore(idx); ref != nil {
			st.Controls = ref.Controls
			st.Seed = ref.Seed
		}
	}

	tl.composeCamera(&st, t)
	tl.composeTracks(&st, t)
	return st, nil
}

// lastNonPauseBefore walks backward from idx (exclusive) to the most
// recent event carrying a payload.
func (tl *Timeline) lastNonPauseBefore(idx int) *ConfigRef {
	for i := idx - 1; i >= 0; i-- {
		if tl.Events[i].Type != EventPause {
			return &ConfigRef{Controls: tl.Events[i].Controls, Seed: tl.Events[i].Seed}
		}
	}
	return nil
}

func (tl *Timeline) lastNonCollapseBefore(idx int) *ConfigRef {
	for i := idx - 1; i >= 0; i-- {
		t := tl.Events[i].Type
		if t != EventCollapse && t != EventPause {
			return &ConfigRef{Controls: tl.Events[i].Controls, Seed: tl.Events[i].Seed}
		}
	}
	return nil
}

// composeCamera folds every in-window camera move onto the baselines:
// zoom multiplies onto 1.0, orbit adds onto 0. Moves outside their window
// contribute nothing; there is no hold.
func (tl *Timeline) composeCamera(st *State, t float64) {
	for _, m := range tl.CameraMoves {
		if t < m.StartTime || t > m.EndTime {
			continue
		}
		u := (t - m.StartTime) / (m.EndTime - m.StartTime)
		easing := m.Easing
		if easing == "" {
			easing = ease.EaseLinear
		}
		v := ease.Lerp(m.From, m.To, easing.Apply(u))
		switch m.Kind {
		case "zoom":
			st.Zoom *= v
		case "orbit":
			st.OrbitY += v
		}
	}
}

// composeTracks sums param tracks and averages focus tracks inside their
// windows. Focus parameters are normalised, so averaging rather than summing
// is the intended overlap semantics.
func (tl *Timeline) composeTracks(st *State, t float64) {
	for _, tr := range tl.ParamTracks {
		if t < tr.StartTime || t > tr.EndTime {
			continue
		}
		u := (t - tr.StartTime) / (tr.EndTime - tr.StartTime)
		easing := tr.Easing
		if easing == "" {
			easing = ease.EaseLinear
		}
		v := ease.Lerp(tr.From, tr.To, easing.Apply(u))
		switch tr.Param {
		case "twinkle":
			st.Twinkle += v
		case "dynamism":
			st.Dynamism += v
		}
	}

	var focalSum, blurSum float64
	var focalN, blurN int
	for _, tr := range tl.FocusTracks {
		if t < tr.StartTime || t > tr.EndTime {
			continue
		}
		u := (t - tr.StartTime) / (tr.EndTime - tr.StartTime)
		easing := tr.Easing
		if easing == "" {
			easing = ease.EaseLinear
		}
		v := ease.Lerp(tr.From, tr.To, easing.Apply(u))
		switch tr.Param {
		case "focalDepth":
			focalSum += v
			focalN++
		case "blurAmount":
			blurSum += v
			blurN++
		}
	}
	if focalN > 0 {
		st.FocalDepth = focalSum / float64(focalN)
	}
	if blurN > 0 {
		st.BlurAmount = blurSum / float64(blurN)
	}
}
