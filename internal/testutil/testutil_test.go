package testutil

import (
	"errors"
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("boom"))
}

func TestFloatEquals(t *testing.T) {
	t.Parallel()
	if !FloatEquals(1.0, 1.0+1e-10, 1e-9) {
		t.Error("expected values within eps to be equal")
	}
	if FloatEquals(1.0, 1.1, 1e-3) {
		t.Error("expected values outside eps to differ")
	}
}

func TestGridMesh(t *testing.T) {
	t.Parallel()
	m := GridMesh("grid", 3, 2, 0.5)

	if got := len(m.Vertices); got != 6 {
		t.Fatalf("len(Vertices) = %d, want 6", got)
	}
	// 2 rows * 2 horizontal + 3 vertical
	if got := len(m.Edges); got != 7 {
		t.Errorf("len(Edges) = %d, want 7", got)
	}
	if v := m.Vertices[5]; v.X != 1.0 || v.Y != 0.5 {
		t.Errorf("Vertices[5] = %v, want (1, 0.5, 0)", v)
	}
	AssertNoError(t, m.Validate())
}

func TestGroupHelpers(t *testing.T) {
	t.Parallel()
	m := LineMesh("line", 0, 1, 2)
	AddGroup(t, m, "A", map[int]float64{0: 1, 2: 0.5})
	AddGroup(t, m, "B", nil)

	got := GroupWeights(m, "A")
	if len(got) != 2 || got[0] != 1 || got[2] != 0.5 {
		t.Errorf("GroupWeights(A) = %v", got)
	}
	if GroupWeights(m, "missing") != nil {
		t.Error("GroupWeights(missing) should be nil")
	}
	if names := GroupNames(m); len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("GroupNames = %v", names)
	}
}
