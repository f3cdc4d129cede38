// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// FloatEquals reports whether a and b differ by at most eps.
func FloatEquals(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// GridMesh returns an nx by ny grid of vertices in the XY plane with the
// given spacing, connected by horizontal and vertical edges. Vertex (i, j)
// has index j*nx + i.
func GridMesh(name string, nx, ny int, spacing float64) *mesh.Object {
	verts := make([]r3.Vec, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			verts = append(verts, r3.Vec{X: float64(i) * spacing, Y: float64(j) * spacing})
		}
	}
	var edges []mesh.Edge
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v := j*nx + i
			if i+1 < nx {
				edges = append(edges, mesh.Edge{v, v + 1})
			}
			if j+1 < ny {
				edges = append(edges, mesh.Edge{v, v + nx})
			}
		}
	}
	return mesh.NewObject(name, verts, edges)
}

// LineMesh returns vertices at the given X positions joined in sequence.
func LineMesh(name string, xs ...float64) *mesh.Object {
	verts := make([]r3.Vec, len(xs))
	var edges []mesh.Edge
	for i, x := range xs {
		verts[i] = r3.Vec{X: x}
		if i > 0 {
			edges = append(edges, mesh.Edge{i - 1, i})
		}
	}
	return mesh.NewObject(name, verts, edges)
}

// AddGroup creates a group on obj and assigns weights by vertex index.
func AddGroup(t *testing.T, obj *mesh.Object, name string, weights map[int]float64) vgroup.GroupID {
	t.Helper()
	id, err := obj.Groups.CreateGroup(name)
	if err != nil {
		t.Fatalf("create group %q: %v", name, err)
	}
	for v, w := range weights {
		obj.Groups.SetWeight(vgroup.VertexID(v), id, w)
	}
	return id
}

// GroupWeights returns a name's assignments keyed by vertex index, or nil
// when the group does not exist.
func GroupWeights(obj *mesh.Object, name string) map[int]float64 {
	id, ok := obj.Groups.GroupByName(name)
	if !ok {
		return nil
	}
	out := make(map[int]float64)
	for _, v := range obj.Groups.Members(id) {
		w, _ := obj.Groups.Weight(v, id)
		out[int(v)] = w
	}
	return out
}

// GroupNames lists obj's groups in host order.
func GroupNames(obj *mesh.Object) []string {
	var names []string
	for _, g := range obj.Groups.Groups() {
		names = append(names, g.Name)
	}
	return names
}
