package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/params"
	"github.com/lumenfold/lumenfold/internal/rng"
)

func TestBuildDeterministic(t *testing.T) {
	c := params.DefaultControls()
	a, err := Build("aurora-thistle-9041", c)
	require.NoError(t, err)
	b, err := Build("aurora-thistle-9041", c)
	require.NoError(t, err)

	assert.Equal(t, a.SphereInst, b.SphereInst, "dot instance streams must match")
	assert.Equal(t, a.Batches.Faces.Pos, b.Batches.Faces.Pos, "face positions must match")
	assert.Equal(t, a.Batches.Edges.Pos, b.Batches.Edges.Pos, "edge positions must match")
	assert.Equal(t, a.Lights, b.Lights)
	assert.Equal(t, a.NodeCount, b.NodeCount)
	assert.Equal(t, a.Uniforms, b.Uniforms)
}

func TestBuildSeedsDiverge(t *testing.T) {
	c := params.DefaultControls()
	a, err := Build("aurora-thistle-9041", c)
	require.NoError(t, err)
	b, err := Build("umbral-kestrel-2207", c)
	require.NoError(t, err)

	assert.NotEqual(t, a.SphereInst, b.SphereInst, "different seeds must place dots differently")
}

func TestBuildPopulatesScene(t *testing.T) {
	s, err := Build("aurora-thistle-9041", params.DefaultControls())
	require.NoError(t, err)

	assert.Positive(t, s.NodeCount)
	assert.NotEmpty(t, s.Dots)
	assert.Greater(t, s.Lights.Count, 0)
	assert.Equal(t, len(s.Dots)*8, len(s.SphereInst), "8 floats per dot instance")
	assert.Zero(t, s.Batches.Faces.VertexCount()%3, "faces arrive as whole triangles")
	assert.Positive(t, s.Uniforms.CameraZ)
	assert.Positive(t, s.Uniforms.BloomStrength)
}

func TestBuildRejectsEmptySeed(t *testing.T) {
	_, err := Build("", params.DefaultControls())
	require.Error(t, err)
	assert.True(t, errors.Is(err, rng.ErrInvalidSeed))
}

func TestBuildSanitizesControls(t *testing.T) {
	dirty := params.Controls{Density: -5, Luminosity: 9}
	s, err := Build("aurora-thistle-9041", dirty)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Controls.Density)
	assert.Equal(t, 1.0, s.Controls.Luminosity)
	assert.Equal(t, params.TopologyFlowField, s.Controls.Topology)
}

func TestBuildCoherenceOrientsChains(t *testing.T) {
	loose := params.DefaultControls()
	loose.Coherence = 0
	tight := params.DefaultControls()
	tight.Coherence = 1

	a, err := Build("aurora-thistle-9041", loose)
	require.NoError(t, err)
	b, err := Build("aurora-thistle-9041", tight)
	require.NoError(t, err)

	assert.NotEqual(t, a.Batches.Faces.Pos, b.Batches.Faces.Pos,
		"coherence must reshape chain geometry")
	assert.Greater(t, b.Uniforms.FlowInfluence, a.Uniforms.FlowInfluence)
}

func TestFlowFieldDeterministic(t *testing.T) {
	a := NewFlowField(rng.StringHash("seed:flow")(), 1.5)
	b := NewFlowField(rng.StringHash("seed:flow")(), 1.5)

	for _, p := range []geom.Vec3{
		{}, {X: 0.5, Y: -0.2, Z: 0.8}, {X: -1.1, Y: 0.4, Z: 0.3},
	} {
		da := a.Direction(p)
		db := b.Direction(p)
		assert.Equal(t, da, db, "flow direction at %+v", p)
		assert.InDelta(t, 1, da.Len(), 1e-9, "flow directions are unit length")
	}
}
