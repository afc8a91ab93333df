// Package timeline models the animation timeline, ordered events plus
// independent camera, parameter, and focus tracks, and evaluates it at
// any absolute time.
package timeline

import (
	"errors"
	"fmt"

	"github.com/lumenfold/lumenfold/internal/ease"
	"github.com/lumenfold/lumenfold/internal/params"
)

// ErrEmptyTimeline reports evaluation of an event-less timeline.
var ErrEmptyTimeline = errors.New("no events")

// EventType names the four timeline event kinds.
type EventType string

const (
	EventExpand     EventType = "expand"
	EventPause      EventType = "pause"
	EventTransition EventType = "transition"
	EventCollapse   EventType = "collapse"
)

// Event is one contiguous timeline segment. Non-pause events carry a
// (controls, seed) payload.
type Event struct {
	Type     EventType       `json:"type"`
	Duration float64         `json:"duration"`
	Easing   ease.Easing     `json:"easing"`
	Controls params.Controls `json:"controls,omitempty"`
	Seed     string          `json:"seed,omitempty"`
}

// CameraTrack composes onto the camera baselines inside its window: zoom
// multiplicatively onto 1.0, orbit additively onto 0.
type CameraTrack struct {
	Kind      string      `json:"kind"` // "zoom" or "orbit"
	StartTime float64     `json:"startTime"`
	EndTime   float64     `json:"endTime"`
	Easing    ease.Easing `json:"easing"`
	From      float64     `json:"from"`
	To        float64     `json:"to"`
}

// Track drives a scalar parameter inside its window.
type Track struct {
	Param     string      `json:"param"`
	StartTime float64     `json:"startTime"`
	EndTime   float64     `json:"endTime"`
	Easing    ease.Easing `json:"easing"`
	From      float64     `json:"from"`
	To        float64     `json:"to"`
}

// Settings carries the playback raster settings.
type Settings struct {
	FPS    float64 `json:"fps"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// Timeline is the full animation document.
type Timeline struct {
	Events      []Event       `json:"events"`
	CameraMoves []CameraTrack `json:"cameraMoves,omitempty"`
	ParamTracks []Track       `json:"paramTracks,omitempty"` // twinkle | dynamism
	FocusTracks []Track       `json:"focusTracks,omitempty"` // focalDepth | blurAmount
	Settings    Settings      `json:"settings"`
}

// TotalDuration sums the event durations; events cover [0, total]
// contiguously.
func (tl *Timeline) TotalDuration() float64 {
	total := 0.0
	for _, e := range tl.Events {
		total += e.Duration
	}
	return total
}

// Validate checks the structural invariants: at least one event, positive
// durations and fps, ordered track windows, enumerated easings.
func (tl *Timeline) Validate() error {
	if len(tl.Events) == 0 {
		return ErrEmptyTimeline
	}
	if tl.Settings.FPS <= 0 {
		return fmt.Errorf("settings.fps must be positive, got %v", tl.Settings.FPS)
	}
	for i, e := range tl.Events {
		if e.Duration <= 0 {
			return fmt.Errorf("event %d: duration must be positive", i)
		}
		if e.Easing != "" && !e.Easing.Valid() {
			return fmt.Errorf("event %d: unknown easing %q", i, e.Easing)
		}
		if e.Type != EventPause && e.Type != EventCollapse && e.Seed == "" {
			return fmt.Errorf("event %d: %s event needs a seed", i, e.Type)
		}
		switch e.Type {
		case EventExpand, EventPause, EventTransition, EventCollapse:
		default:
			return fmt.Errorf("event %d: unknown event type %q", i, e.Type)
		}
	}
	check := func(kind string, start, end float64, easing ease.Easing) error {
		if start >= end {
			return fmt.Errorf("%s track: startTime must precede endTime", kind)
		}
		if easing != "" && !easing.Valid() {
			return fmt.Errorf("%s track: unknown easing %q", kind, easing)
		}
		return nil
	}
	for _, m := range tl.CameraMoves {
		if m.Kind != "zoom" && m.Kind != "orbit" {
			return fmt.Errorf("camera track: unknown kind %q", m.Kind)
		}
		if err := check("camera", m.StartTime, m.EndTime, m.Easing); err != nil {
			return err
		}
	}
	for _, t := range tl.ParamTracks {
		if t.Param != "twinkle" && t.Param != "dynamism" {
			return fmt.Errorf("param track: unknown param %q", t.Param)
		}
		if err := check("param", t.StartTime, t.EndTime, t.Easing); err != nil {
			return err
		}
	}
	for _, t := range tl.FocusTracks {
		if t.Param != "focalDepth" && t.Param != "blurAmount" {
			return fmt.Errorf("focus track: unknown param %q", t.Param)
		}
		if err := check("focus", t.StartTime, t.EndTime, t.Easing); err != nil {
			return err
		}
	}
	return nil
}
