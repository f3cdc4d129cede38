package weightplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/skinweights/internal/monitoring"
	"github.com/banshee-data/skinweights/internal/testutil"
)

func TestSummarize(t *testing.T) {
	t.Parallel()
	obj := testutil.LineMesh("arm", 0, 1, 2, 3)
	testutil.AddGroup(t, obj, "upper", map[int]float64{0: 1, 1: 0.5, 2: 0.0})
	testutil.AddGroup(t, obj, "empty", nil)

	got := Summarize(obj)
	require.Len(t, got, 2)
	assert.Equal(t, Summary{Group: "upper", Assigned: 3, Mean: 0.5, Min: 0, Max: 1}, got[0])
	assert.Equal(t, Summary{Group: "empty"}, got[1])
}

func TestFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Body_mesh_Bip01_L_Thigh.png", FileName("Body mesh", "Bip01 L Thigh"))
	assert.Equal(t, "a_.._b.png", FileName("a/..", "b"))
}

func TestSaveHistograms(t *testing.T) {
	restore := monitoring.Quiet()
	defer restore()

	obj := testutil.GridMesh("grid", 4, 4, 1)
	weights := map[int]float64{}
	for v := 0; v < 16; v++ {
		weights[v] = float64(v) / 15
	}
	testutil.AddGroup(t, obj, "ramp", weights)
	testutil.AddGroup(t, obj, "empty", nil)

	dir := filepath.Join(t.TempDir(), "plots")
	files, err := SaveHistograms(obj, dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "grid_ramp.png")}, files)

	info, err := os.Stat(files[0])
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
