package weightops

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/spatial"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// contribution is one neighbor's share in a weighted average.
type contribution struct {
	vertex vgroup.VertexID
	weight float64
}

// neighborhood is the cached neighbor list of one vertex.
type neighborhood struct {
	contribs []contribution
	total    float64
}

// average returns Σ(field·c)/Σc over the neighborhood, or 0 when nothing
// contributes.
func (n neighborhood) average(field vgroup.Field) float64 {
	if n.total <= 0 {
		return 0
	}
	var sum float64
	for _, c := range n.contribs {
		sum += field[c.vertex] * c.weight
	}
	return sum / n.total
}

// transferFalloff weighs a source point at dist from the query when the
// nearest source sits at d0 and the search reaches radius. It is 1 at d0
// and falls linearly to 0 at radius. When radius does not exceed d0 every
// hit is equally near and weighs 1.
func transferFalloff(d0, radius, dist float64) float64 {
	span := radius - d0
	if span <= 0 {
		return 1
	}
	return (span - (dist - d0)) / span
}

// blurFalloff weighs a neighbor at dist within radius: 1 at the vertex,
// 0 at the radius. A zero radius only ever finds coincident points, which
// weigh 1.
func blurFalloff(radius, dist float64) float64 {
	if radius <= 0 {
		return 1
	}
	return (radius - dist) / radius
}

// transferNeighborhoods finds, for every query point, the source points
// within rangeMultiplier times its nearest-source distance.
func transferNeighborhoods(index *spatial.SpatialIndex, queries []r3.Vec, rangeMultiplier float64, sink progress.Sink) []neighborhood {
	out := make([]neighborhood, len(queries))
	tracker := progress.Start(sink, len(queries))
	for i, q := range queries {
		nearest, ok := index.Nearest(q)
		if ok {
			radius := nearest.Dist * rangeMultiplier
			hits := index.RegionQuery(q, radius)
			nb := neighborhood{contribs: make([]contribution, 0, len(hits))}
			for _, h := range hits {
				c := transferFalloff(nearest.Dist, radius, h.Dist)
				nb.contribs = append(nb.contribs, contribution{vertex: vgroup.VertexID(h.ID), weight: c})
				nb.total += c
			}
			out[i] = nb
		}
		tracker.Tick()
	}
	tracker.Done()
	return out
}

// blurNeighborhoods indexes points and caches every point's neighbors
// within radius.
func blurNeighborhoods(pts []r3.Vec, radius float64, sink progress.Sink) []neighborhood {
	index := spatial.NewSpatialIndex(spatial.EntriesFromPoints(pts))
	out := make([]neighborhood, len(pts))
	tracker := progress.Start(sink, len(pts))
	for i, p := range pts {
		hits := index.RegionQuery(p, radius)
		nb := neighborhood{contribs: make([]contribution, 0, len(hits))}
		for _, h := range hits {
			c := blurFalloff(radius, h.Dist)
			nb.contribs = append(nb.contribs, contribution{vertex: vgroup.VertexID(h.ID), weight: c})
			nb.total += c
		}
		out[i] = nb
		tracker.Tick()
	}
	tracker.Done()
	return out
}
