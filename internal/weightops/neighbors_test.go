package weightops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/spatial"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

func TestTransferFalloff(t *testing.T) {
	t.Parallel()
	d0, radius := 0.5, 1.5
	assert.Equal(t, 1.0, transferFalloff(d0, radius, d0))
	assert.Equal(t, 0.0, transferFalloff(d0, radius, radius))

	prev := 1.0
	for d := d0; d <= radius; d += 0.05 {
		c := transferFalloff(d0, radius, d)
		assert.GreaterOrEqual(t, c, -1e-12)
		assert.LessOrEqual(t, c, 1.0)
		assert.LessOrEqual(t, c, prev+1e-12, "not monotone at %v", d)
		prev = c
	}

	assert.Equal(t, 1.0, transferFalloff(0, 0, 0), "coincident nearest")
}

func TestBlurFalloff(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1.0, blurFalloff(2, 0))
	assert.Equal(t, 0.5, blurFalloff(2, 1))
	assert.Equal(t, 0.0, blurFalloff(2, 2))
	assert.Equal(t, 1.0, blurFalloff(0, 0))
}

func TestBlurNeighborhoods(t *testing.T) {
	t.Parallel()
	pts := []r3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 5}}
	nbs := blurNeighborhoods(pts, 1.5, progress.Nop{})
	require.Len(t, nbs, 4)

	assert.Len(t, nbs[1].contribs, 3)
	assert.InDelta(t, 1+2.0/3, nbs[1].total, 1e-12)
	require.Len(t, nbs[3].contribs, 1, "isolated vertex sees only itself")
	assert.Equal(t, vgroup.VertexID(3), nbs[3].contribs[0].vertex)
	assert.Equal(t, 1.0, nbs[3].contribs[0].weight)

	field := vgroup.Field{1, 0, 0, 0.4}
	assert.InDelta(t, 0.2, nbs[1].average(field), 1e-12)
	assert.InDelta(t, 0.4, nbs[3].average(field), 1e-12)
}

func TestTransferNeighborhoods(t *testing.T) {
	t.Parallel()
	index := spatial.NewSpatialIndex(spatial.EntriesFromPoints([]r3.Vec{{X: 0}, {X: 10}}))
	nbs := transferNeighborhoods(index, []r3.Vec{{X: 1}, {X: 5}}, 2, nil)
	require.Len(t, nbs, 2)

	require.Len(t, nbs[0].contribs, 1)
	assert.Equal(t, vgroup.VertexID(0), nbs[0].contribs[0].vertex)

	// Equidistant: both at d0, both weigh 1.
	require.Len(t, nbs[1].contribs, 2)
	assert.Equal(t, 2.0, nbs[1].total)
	assert.InDelta(t, 0.5, nbs[1].average(vgroup.Field{1, 0}), 1e-12)

	var empty neighborhood
	assert.Equal(t, 0.0, empty.average(vgroup.Field{1, 0}))
}

func TestParseEffect(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Effect{"both": EffectBoth, "Increase": EffectIncreaseOnly, "sub": EffectDecreaseOnly} {
		got, err := ParseEffect(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEffect("sideways")
	assert.Error(t, err)
}
