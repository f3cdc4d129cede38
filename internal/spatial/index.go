package spatial

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Entry is a labeled point inserted into the index.
type Entry struct {
	Pos r3.Vec
	ID  int
}

// Neighbor is a query hit: the entry ID and its Euclidean distance to the query.
type Neighbor struct {
	ID   int
	Dist float64
}

// SpatialIndex is a balanced k-d tree over a fixed entry set.
type SpatialIndex struct {
	tree  *kdtree.Tree
	count int
}

// NewSpatialIndex builds an index from entries. The slice is copied; the
// tree build reorders its private copy.
func NewSpatialIndex(entries []Entry) *SpatialIndex {
	pts := make(points, len(entries))
	for i, e := range entries {
		pts[i] = point{pos: e.Pos, id: e.ID}
	}
	return &SpatialIndex{
		tree:  kdtree.New(pts, false),
		count: len(pts),
	}
}

// EntriesFromPoints labels each point with its position in the slice.
func EntriesFromPoints(pts []r3.Vec) []Entry {
	entries := make([]Entry, len(pts))
	for i, p := range pts {
		entries[i] = Entry{Pos: p, ID: i}
	}
	return entries
}

// Len returns the number of indexed entries.
func (si *SpatialIndex) Len() int {
	return si.count
}

// Nearest returns the closest entry to q. When several entries share the
// minimum distance the one with the smallest ID wins. ok is false for an
// empty index.
func (si *SpatialIndex) Nearest(q r3.Vec) (n Neighbor, ok bool) {
	if si.count == 0 {
		return Neighbor{}, false
	}
	query := point{pos: q, id: -1}
	c, d2 := si.tree.Nearest(query)
	if c == nil {
		return Neighbor{}, false
	}
	best := c.(point)

	// The tree returns whichever tied entry it reaches first; sweep the
	// shell at exactly d2 to make the choice independent of tree layout.
	keeper := kdtree.NewDistKeeper(math.Nextafter(d2, math.Inf(1)))
	si.tree.NearestSet(keeper, query)
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil || cd.Dist > d2 {
			continue
		}
		if p := cd.Comparable.(point); p.id < best.id {
			best = p
		}
	}
	return Neighbor{ID: best.id, Dist: math.Sqrt(d2)}, true
}

// RegionQuery returns every entry within radius of q, inclusive, ordered by
// distance then ID. A zero radius yields only coincident entries; a negative
// or NaN radius yields nothing.
func (si *SpatialIndex) RegionQuery(q r3.Vec, radius float64) []Neighbor {
	if si.count == 0 || !(radius >= 0) {
		return nil
	}
	r2 := radius * radius
	query := point{pos: q, id: -1}

	keeper := kdtree.NewDistKeeper(math.Nextafter(r2, math.Inf(1)))
	si.tree.NearestSet(keeper, query)

	neighbors := make([]Neighbor, 0, len(keeper.Heap))
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil || cd.Dist > r2 {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			ID:   cd.Comparable.(point).id,
			Dist: math.Sqrt(cd.Dist),
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Dist != neighbors[j].Dist {
			return neighbors[i].Dist < neighbors[j].Dist
		}
		return neighbors[i].ID < neighbors[j].ID
	})
	return neighbors
}
