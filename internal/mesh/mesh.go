// Package mesh is the host mesh accessor seen by the weight engine: ordered
// local-space vertex positions, an edge list, the object's world transform
// and its vertex-group store.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/skinweights/internal/geom"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

var (
	// ErrNoVertices is returned for a mesh without vertices.
	ErrNoVertices = errors.New("mesh has no vertices")
	// ErrNoEdges is returned when an edge-length statistic is requested
	// for a mesh without edges.
	ErrNoEdges = errors.New("mesh has no edges")
	// ErrInvalidEdge is returned for an edge referencing a missing vertex.
	ErrInvalidEdge = errors.New("edge references an unknown vertex")
	// ErrStoreMismatch is returned when the group store covers a different
	// number of vertices than the mesh.
	ErrStoreMismatch = errors.New("vertex group store does not match mesh")
)

// Edge joins two vertices by index.
type Edge [2]int

// Object is one mesh object: geometry plus its vertex groups.
type Object struct {
	Name     string
	Vertices []r3.Vec // local space
	Edges    []Edge
	World    geom.Transform
	Groups   vgroup.Store
}

// NewObject returns an object with an identity world transform and an
// empty in-memory group store sized to vertices.
func NewObject(name string, vertices []r3.Vec, edges []Edge) *Object {
	return &Object{
		Name:     name,
		Vertices: vertices,
		Edges:    edges,
		World:    geom.Identity,
		Groups:   vgroup.NewMemoryStore(len(vertices)),
	}
}

// Validate checks the object is usable by a weight operation: it has
// vertices, a matching store, in-range edges and a valid world transform.
func (o *Object) Validate() error {
	if len(o.Vertices) == 0 {
		return fmt.Errorf("%s: %w", o.Name, ErrNoVertices)
	}
	if o.Groups == nil || o.Groups.VertexCount() != len(o.Vertices) {
		return fmt.Errorf("%s: %w", o.Name, ErrStoreMismatch)
	}
	for i, e := range o.Edges {
		if e[0] < 0 || e[0] >= len(o.Vertices) || e[1] < 0 || e[1] >= len(o.Vertices) {
			return fmt.Errorf("%s: edge %d %v: %w", o.Name, i, e, ErrInvalidEdge)
		}
	}
	if err := o.World.Validate(); err != nil {
		return fmt.Errorf("%s: %w", o.Name, err)
	}
	return nil
}

// WorldVertices returns the vertices moved into world space.
func (o *Object) WorldVertices() []r3.Vec {
	return o.World.ApplyAll(o.Vertices)
}

// EdgeLengths returns every edge's local-space length, sorted ascending.
func (o *Object) EdgeLengths() ([]float64, error) {
	if len(o.Edges) == 0 {
		return nil, fmt.Errorf("%s: %w", o.Name, ErrNoEdges)
	}
	lengths := make([]float64, len(o.Edges))
	for i, e := range o.Edges {
		if e[0] < 0 || e[0] >= len(o.Vertices) || e[1] < 0 || e[1] >= len(o.Vertices) {
			return nil, fmt.Errorf("%s: edge %d %v: %w", o.Name, i, e, ErrInvalidEdge)
		}
		lengths[i] = r3.Norm(r3.Sub(o.Vertices[e[0]], o.Vertices[e[1]]))
	}
	sort.Float64s(lengths)
	return lengths, nil
}

// AverageEdgeLength is the mean edge length averaged with the lower median
// edge length.
func (o *Object) AverageEdgeLength() (float64, error) {
	lengths, err := o.EdgeLengths()
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(lengths, nil)
	median := stat.Quantile(0.5, stat.Empirical, lengths, nil)
	return (mean + median) / 2, nil
}
