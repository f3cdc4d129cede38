package weightops

import (
	"fmt"

	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// Blur smooths the selected groups of obj. The blur radius is the mesh's
// average edge length times RadiusMultiplier, measured in local space.
// Neighbor lists are computed once and reused for every pass and group.
//
// Within a pass, each group reads a snapshot of its own weights taken
// before the group is processed, and groups run in ascending host order.
// With NormalizeOthers the other groups on a vertex are rescaled right
// after each write, so later groups in the same pass see the rescaled
// values.
func (e *Engine) Blur(obj *mesh.Object, p BlurParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if obj == nil {
		return ErrNilObject
	}
	if err := obj.Validate(); err != nil {
		return err
	}
	targets, err := vgroup.SelectGroups(obj.Groups, p.Target)
	if err != nil {
		return fmt.Errorf("%s: %w", obj.Name, err)
	}
	avgEdge, err := obj.AverageEdgeLength()
	if err != nil {
		return err
	}
	start := e.clock.Now()

	radius := avgEdge * p.RadiusMultiplier
	neighborhoods := blurNeighborhoods(obj.Vertices, radius, e.progress)

	store := obj.Groups
	tracker := progress.Start(e.progress, len(targets)*p.Iterations*len(obj.Vertices))
	for pass := 0; pass < p.Iterations; pass++ {
		for _, g := range targets {
			weights := vgroup.ExtractField(store, g)
			for i, nb := range neighborhoods {
				v := vgroup.VertexID(i)
				own := weights[i]

				var total, totalMulti float64
				for _, c := range nb.contribs {
					w := weights[c.vertex]
					if !p.Effect.accepts(own, w) {
						continue
					}
					total += w * c.weight
					totalMulti += c.weight
				}

				var average float64
				if totalMulti > 0 {
					average = total / totalMulti
				}
				if average > BlurWeightThreshold {
					store.SetWeight(v, g, average)
				} else {
					store.ClearWeight(v, g)
				}

				// Normalization follows the raw average even when it was cleared.
				if p.NormalizeOthers {
					vgroup.Normalize(store, v, g, own, average)
				}
				tracker.Tick()
			}
		}
	}
	tracker.Done()

	e.finish(start, "blur %s: %d groups, %d passes, radius %.4g (%s)",
		obj.Name, len(targets), p.Iterations, radius, p.Effect)
	return nil
}
