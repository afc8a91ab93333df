package params

import (
	"errors"
	"math"
	"testing"
)

func TestSanitizeClampsAxes(t *testing.T) {
	c := Controls{
		Density:    -0.5,
		Luminosity: 1.5,
		Fracture:   0.3,
	}
	s := c.Sanitize()
	if s.Density != 0 {
		t.Errorf("Density = %v, want 0", s.Density)
	}
	if s.Luminosity != 1 {
		t.Errorf("Luminosity = %v, want 1", s.Luminosity)
	}
	if s.Fracture != 0.3 {
		t.Errorf("Fracture = %v, want 0.3", s.Fracture)
	}
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	d := DefaultControls()
	c := Controls{
		Density: math.NaN(),
		Hue:     math.Inf(1),
		Chroma:  math.Inf(-1),
	}
	s := c.Sanitize()
	if s.Density != d.Density {
		t.Errorf("NaN density = %v, want default %v", s.Density, d.Density)
	}
	if s.Hue != d.Hue {
		t.Errorf("Inf hue = %v, want default %v", s.Hue, d.Hue)
	}
	if s.Chroma != d.Chroma {
		t.Errorf("-Inf chroma = %v, want default %v", s.Chroma, d.Chroma)
	}
}

func TestSanitizeFillsTopology(t *testing.T) {
	s := Controls{}.Sanitize()
	if s.Topology != TopologyFlowField {
		t.Errorf("Topology = %q, want %q", s.Topology, TopologyFlowField)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultControls().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	bad := DefaultControls()
	bad.Spectrum = 1.2
	if err := bad.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("out-of-range axis: got %v, want ErrInvalidParameter", err)
	}

	nan := DefaultControls()
	nan.Flow = math.NaN()
	if err := nan.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("NaN axis: got %v, want ErrInvalidParameter", err)
	}

	topo := DefaultControls()
	topo.Topology = "lattice"
	if err := topo.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown topology: got %v, want ErrInvalidParameter", err)
	}
}

func TestLerpSnapsTopologyAtMidpoint(t *testing.T) {
	a := DefaultControls()
	a.Topology = TopologyFlowField
	b := DefaultControls()
	b.Density = 1

	if got := a.Lerp(b, 0.25).Density; math.Abs(got-0.625) > 1e-12 {
		t.Errorf("Density at t=0.25 = %v, want 0.625", got)
	}
	if got := a.Lerp(b, 0.49).Topology; got != a.Topology {
		t.Errorf("Topology snapped before the midpoint: %q", got)
	}
	if got := a.Lerp(b, 0.5).Topology; got != b.Topology {
		t.Errorf("Topology did not snap at the midpoint: %q", got)
	}
}
