// Package params defines the user-facing control axes and the derived
// parameter record every scene producer consumes. All derivations are
// pure closed forms over the controls; the tuned (lo, mid, hi) triples are
// part of the deterministic-render contract and must not drift.
package params

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter reports a control or derived value outside its
// documented domain.
var ErrInvalidParameter = errors.New("invalid parameter")

// Topology names the scene construction family. Only the flow-field
// topology is implemented.
type Topology string

// TopologyFlowField is the single supported topology.
const TopologyFlowField Topology = "flow-field"

// Controls is the 11-axis normalised parameter vector plus topology.
// Every axis lives in [0,1].
type Controls struct {
	Density    float64 `json:"density"`
	Luminosity float64 `json:"luminosity"`
	Fracture   float64 `json:"fracture"`
	Coherence  float64 `json:"coherence"`
	Hue        float64 `json:"hue"`
	Spectrum   float64 `json:"spectrum"`
	Chroma     float64 `json:"chroma"`
	Scale      float64 `json:"scale"`
	Division   float64 `json:"division"`
	Faceting   float64 `json:"faceting"`
	Flow       float64 `json:"flow"`

	Topology Topology `json:"topology,omitempty"`
}

// DefaultControls returns the hand-tuned default scene controls.
func DefaultControls() Controls {
	return Controls{
		Density:    0.5,
		Luminosity: 0.5,
		Fracture:   0.5,
		Coherence:  0.5,
		Hue:        0.58,
		Spectrum:   0.35,
		Chroma:     0.7,
		Scale:      0.5,
		Division:   0.5,
		Faceting:   0.5,
		Flow:       0.5,
		Topology:   TopologyFlowField,
	}
}

// sanitizeAxis clamps x to [0,1]; non-finite input falls back to def.
func sanitizeAxis(x, def float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return def
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Sanitize returns a copy with every axis finite and clamped to [0,1].
// Non-numeric inputs are replaced by the documented defaults.
func (c Controls) Sanitize() Controls {
	d := DefaultControls()
	out := Controls{
		Density:    sanitizeAxis(c.Density, d.Density),
		Luminosity: sanitizeAxis(c.Luminosity, d.Luminosity),
		Fracture:   sanitizeAxis(c.Fracture, d.Fracture),
		Coherence:  sanitizeAxis(c.Coherence, d.Coherence),
		Hue:        sanitizeAxis(c.Hue, d.Hue),
		Spectrum:   sanitizeAxis(c.Spectrum, d.Spectrum),
		Chroma:     sanitizeAxis(c.Chroma, d.Chroma),
		Scale:      sanitizeAxis(c.Scale, d.Scale),
		Division:   sanitizeAxis(c.Division, d.Division),
		Faceting:   sanitizeAxis(c.Faceting, d.Faceting),
		Flow:       sanitizeAxis(c.Flow, d.Flow),
		Topology:   c.Topology,
	}
	if out.Topology == "" {
		out.Topology = TopologyFlowField
	}
	return out
}

// Validate reports whether every axis is finite and in range and the
// topology is supported.
func (c Controls) Validate() error {
	axes := []struct {
		name string
		v    float64
	}{
		{"density", c.Density}, {"luminosity", c.Luminosity},
		{"fracture", c.Fracture}, {"coherence", c.Coherence},
		{"hue", c.Hue}, {"spectrum", c.Spectrum}, {"chroma", c.Chroma},
		{"scale", c.Scale}, {"division", c.Division},
		{"faceting", c.Faceting}, {"flow", c.Flow},
	}
	for _, a := range axes {
		if math.IsNaN(a.v) || math.IsInf(a.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParameter, a.name)
		}
		if a.v < 0 || a.v > 1 {
			return fmt.Errorf("%w: %s %.4f outside [0,1]", ErrInvalidParameter, a.name, a.v)
		}
	}
	if c.Topology != "" && c.Topology != TopologyFlowField {
		return fmt.Errorf("%w: unsupported topology %q", ErrInvalidParameter, c.Topology)
	}
	return nil
}

// Lerp interpolates every axis toward o; discrete fields snap at t=0.5.
func (c Controls) Lerp(o Controls, t float64) Controls {
	mix := func(a, b float64) float64 { return a + (b-a)*t }
	out := Controls{
		Density:    mix(c.Density, o.Density),
		Luminosity: mix(c.Luminosity, o.Luminosity),
		Fracture:   mix(c.Fracture, o.Fracture),
		Coherence:  mix(c.Coherence, o.Coherence),
		Hue:        mix(c.Hue, o.Hue),
		Spectrum:   mix(c.Spectrum, o.Spectrum),
		Chroma:     mix(c.Chroma, o.Chroma),
		Scale:      mix(c.Scale, o.Scale),
		Division:   mix(c.Division, o.Division),
		Faceting:   mix(c.Faceting, o.Faceting),
		Flow:       mix(c.Flow, o.Flow),
		Topology:   c.Topology,
	}
	// Discrete choices snap exactly at the midpoint, never blend.
	if t >= 0.5 {
		out.Topology = o.Topology
	}
	return out
}
