package weightops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/skinweights/internal/geom"
	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/testutil"
)

func twoPointSource(t *testing.T) *mesh.Object {
	t.Helper()
	src := testutil.LineMesh("src", 0, 10)
	testutil.AddGroup(t, src, "A", map[int]float64{0: 1.0, 1: 0.0})
	return src
}

func TestQuickTransfer_NearestVertex(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := twoPointSource(t)
	dst := testutil.LineMesh("dst", 1)

	require.NoError(t, e.QuickTransfer(src, dst, DefaultTransferParams()))

	assert.Equal(t, map[int]float64{0: 1.0}, testutil.GroupWeights(dst, "A"))
	active, ok := dst.Groups.ActiveGroup()
	require.True(t, ok)
	g, _ := dst.Groups.Group(active)
	assert.Equal(t, "A", g.Name)
	assert.Equal(t, []string{"1.5 Seconds"}, e.reports)
}

func TestPrecisionTransfer_SingleContributor(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := twoPointSource(t)
	dst := testutil.LineMesh("dst", 1)

	require.NoError(t, e.PrecisionTransfer(src, dst, DefaultPrecisionTransferParams()))

	assert.Equal(t, map[int]float64{0: 1.0}, testutil.GroupWeights(dst, "A"))
}

func TestPrecisionTransfer_Blends(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.LineMesh("src", 0, 1.2)
	testutil.AddGroup(t, src, "A", map[int]float64{0: 1.0})
	dst := testutil.LineMesh("dst", 0.4)

	p := DefaultPrecisionTransferParams()
	p.RangeMultiplier = 3
	require.NoError(t, e.PrecisionTransfer(src, dst, p))

	// d0 = 0.4, radius = 1.2: the far vertex at 0.8 contributes 0.5.
	got := testutil.GroupWeights(dst, "A")
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0/1.5, got[0], 1e-9)
}

func TestTransfer_RemovesEmptyGroups(t *testing.T) {
	t.Parallel()
	for _, precision := range []bool{false, true} {
		e := newTestEngine(t)
		src := testutil.LineMesh("src", 0, 1)
		testutil.AddGroup(t, src, "faint", map[int]float64{0: 0.005})
		testutil.AddGroup(t, src, "B", map[int]float64{0: 0.5, 1: 0.5})
		dst := testutil.LineMesh("dst", 0, 1)

		var err error
		if precision {
			err = e.PrecisionTransfer(src, dst, DefaultPrecisionTransferParams())
		} else {
			err = e.QuickTransfer(src, dst, DefaultTransferParams())
		}
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, testutil.GroupNames(dst), "precision=%v", precision)
	}
}

func TestTransfer_KeepEmptyGroups(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.LineMesh("src", 0, 1)
	testutil.AddGroup(t, src, "faint", map[int]float64{0: 0.005})
	dst := testutil.LineMesh("dst", 0, 1)

	p := DefaultTransferParams()
	p.RemoveEmptyGroups = false
	require.NoError(t, e.QuickTransfer(src, dst, p))

	assert.Equal(t, []string{"faint"}, testutil.GroupNames(dst))
	assert.Empty(t, testutil.GroupWeights(dst, "faint"))
}

func TestTransfer_IdenticalCopyIsIdempotent(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.GridMesh("src", 4, 4, 0.25)
	weights := map[int]float64{}
	for v := 0; v < 16; v++ {
		weights[v] = float64(v+1) / 16
	}
	testutil.AddGroup(t, src, "A", weights)

	dst := testutil.GridMesh("dst", 4, 4, 0.25)
	require.NoError(t, e.QuickTransfer(src, dst, DefaultTransferParams()))
	assert.Equal(t, weights, testutil.GroupWeights(dst, "A"))

	dst2 := testutil.GridMesh("dst2", 4, 4, 0.25)
	require.NoError(t, e.PrecisionTransfer(src, dst2, DefaultPrecisionTransferParams()))
	got := testutil.GroupWeights(dst2, "A")
	require.Len(t, got, len(weights))
	for v, w := range weights {
		assert.InDelta(t, w, got[v], 1e-12, "vertex %d", v)
	}
}

func TestTransfer_UsesWorldSpace(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.LineMesh("src", 0, 10)
	testutil.AddGroup(t, src, "A", map[int]float64{1: 1.0})
	src.World = geom.Translation(-9, 0, 0)

	// Locally closest to source vertex 0, but in world space vertex 1 sits at x=1.
	dst := testutil.LineMesh("dst", 1)
	require.NoError(t, e.QuickTransfer(src, dst, DefaultTransferParams()))
	assert.Equal(t, map[int]float64{0: 1.0}, testutil.GroupWeights(dst, "A"))
}

func TestTransfer_KeepTarget(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.LineMesh("src", 0, 1)
	testutil.AddGroup(t, src, "A", map[int]float64{0: 0.8})

	dst := testutil.LineMesh("dst", 0, 1)
	testutil.AddGroup(t, dst, "B", map[int]float64{0: 0.7})
	testutil.AddGroup(t, dst, "A", map[int]float64{1: 0.5})

	p := DefaultTransferParams()
	p.ClearTargetFirst = false
	require.NoError(t, e.QuickTransfer(src, dst, p))

	assert.Equal(t, []string{"B", "A"}, testutil.GroupNames(dst))
	assert.Equal(t, map[int]float64{0: 0.7}, testutil.GroupWeights(dst, "B"))
	// The stale assignment on vertex 1 is cleared.
	assert.Equal(t, map[int]float64{0: 0.8}, testutil.GroupWeights(dst, "A"))
}

func TestTransfer_ClearTargetFirst(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.LineMesh("src", 0, 1)
	testutil.AddGroup(t, src, "A", map[int]float64{0: 0.8})
	dst := testutil.LineMesh("dst", 0, 1)
	testutil.AddGroup(t, dst, "B", map[int]float64{0: 0.7})

	require.NoError(t, e.QuickTransfer(src, dst, DefaultTransferParams()))
	assert.Equal(t, []string{"A"}, testutil.GroupNames(dst))
}

func TestTransfer_Errors(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := twoPointSource(t)
	empty := testutil.LineMesh("empty", 0)
	noVerts := mesh.NewObject("none", nil, nil)

	tests := []struct {
		name     string
		src, dst *mesh.Object
		want     error
	}{
		{"nil source", nil, empty, ErrNilObject},
		{"nil target", src, nil, ErrNilObject},
		{"same object", src, src, ErrSameObject},
		{"no source groups", empty, src, ErrNoSourceGroups},
		{"empty target", src, noVerts, mesh.ErrNoVertices},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, e.QuickTransfer(tt.src, tt.dst, DefaultTransferParams()), tt.want)
			assert.ErrorIs(t, e.PrecisionTransfer(tt.src, tt.dst, DefaultPrecisionTransferParams()), tt.want)
		})
	}
}

func TestTransfer_FailsBeforeMutating(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.LineMesh("src", 0, 1)
	dst := testutil.LineMesh("dst", 0, 1)
	testutil.AddGroup(t, dst, "B", map[int]float64{0: 0.7})

	assert.ErrorIs(t, e.QuickTransfer(src, dst, DefaultTransferParams()), ErrNoSourceGroups)

	testutil.AddGroup(t, src, "A", map[int]float64{0: 1})
	p := DefaultPrecisionTransferParams()
	p.RangeMultiplier = 1
	assert.ErrorIs(t, e.PrecisionTransfer(src, dst, p), ErrInvalidParameter)

	assert.Equal(t, []string{"B"}, testutil.GroupNames(dst))
	assert.Equal(t, map[int]float64{0: 0.7}, testutil.GroupWeights(dst, "B"))
	assert.Empty(t, e.reports)
}

func TestTransfer_ProgressIsBounded(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	src := testutil.GridMesh("src", 30, 30, 0.1)
	testutil.AddGroup(t, src, "A", map[int]float64{0: 1})
	dst := testutil.GridMesh("dst", 30, 30, 0.1)

	require.NoError(t, e.PrecisionTransfer(src, dst, DefaultPrecisionTransferParams()))

	assert.Equal(t, []int{900, 1}, e.sink.phases)
	assert.Equal(t, 0, e.sink.open)
	for i, n := range e.sink.updates {
		assert.LessOrEqual(t, n, progress.MaxUpdates, "phase %d", i)
	}
}
