package weightops

import (
	"fmt"

	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/spatial"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// transferStats counts what happened to the target's groups.
type transferStats struct {
	written int
	removed int
}

// QuickTransfer copies every source group onto dst. Each target vertex
// takes the weight of its nearest source vertex (both measured in world
// space). The nearest-vertex mapping is computed once and shared by all
// groups.
func (e *Engine) QuickTransfer(src, dst *mesh.Object, p TransferParams) error {
	if err := checkTransferObjects(src, dst); err != nil {
		return err
	}
	start := e.clock.Now()

	index := spatial.NewSpatialIndex(spatial.EntriesFromPoints(src.WorldVertices()))
	targets := dst.WorldVertices()
	nearest := make([]vgroup.VertexID, len(targets))
	for i, q := range targets {
		n, _ := index.Nearest(q)
		nearest[i] = vgroup.VertexID(n.ID)
	}

	stats, err := e.transferGroups(src, dst, p, func(source vgroup.Field) vgroup.Field {
		out := make(vgroup.Field, len(nearest))
		for i, sv := range nearest {
			out[i] = source[sv]
		}
		return out
	})
	if err != nil {
		return err
	}

	e.finish(start, "quick transfer %s -> %s: %d groups written, %d removed",
		src.Name, dst.Name, stats.written, stats.removed)
	return nil
}

// PrecisionTransfer copies every source group onto dst, blending source
// weights around each target vertex. For a target vertex whose nearest
// source vertex is d0 away, every source vertex within d0*RangeMultiplier
// contributes with a weight falling linearly from 1 at d0 to 0 at the
// search radius.
func (e *Engine) PrecisionTransfer(src, dst *mesh.Object, p PrecisionTransferParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkTransferObjects(src, dst); err != nil {
		return err
	}
	start := e.clock.Now()

	index := spatial.NewSpatialIndex(spatial.EntriesFromPoints(src.WorldVertices()))
	neighborhoods := transferNeighborhoods(index, dst.WorldVertices(), p.RangeMultiplier, e.progress)

	stats, err := e.transferGroups(src, dst, p.TransferParams, func(source vgroup.Field) vgroup.Field {
		out := make(vgroup.Field, len(neighborhoods))
		for i, nb := range neighborhoods {
			out[i] = nb.average(source)
		}
		return out
	})
	if err != nil {
		return err
	}

	e.finish(start, "precision transfer %s -> %s (range x%.2f): %d groups written, %d removed",
		src.Name, dst.Name, p.RangeMultiplier, stats.written, stats.removed)
	return nil
}

func checkTransferObjects(src, dst *mesh.Object) error {
	if src == nil || dst == nil {
		return ErrNilObject
	}
	if src == dst {
		return ErrSameObject
	}
	if err := src.Validate(); err != nil {
		return fmt.Errorf("transfer source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("transfer target: %w", err)
	}
	if len(src.Groups.Groups()) == 0 {
		return fmt.Errorf("%s: %w", src.Name, ErrNoSourceGroups)
	}
	return nil
}

// transferGroups writes sample(sourceField) into the same-named target
// group for every source group. It is the only part of a transfer that
// mutates dst.
func (e *Engine) transferGroups(src, dst *mesh.Object, p TransferParams, sample func(vgroup.Field) vgroup.Field) (transferStats, error) {
	var stats transferStats
	store := dst.Groups

	if p.ClearTargetFirst {
		for _, g := range store.Groups() {
			if err := store.DeleteGroup(g.ID); err != nil {
				return stats, fmt.Errorf("clear target group %q: %w", g.Name, err)
			}
		}
	}

	sources := src.Groups.Groups()
	tracker := progress.Start(e.progress, len(sources))
	for _, sg := range sources {
		tg, ok := store.GroupByName(sg.Name)
		if !ok {
			var err error
			if tg, err = store.CreateGroup(sg.Name); err != nil {
				return stats, fmt.Errorf("create target group %q: %w", sg.Name, err)
			}
		}

		field := sample(vgroup.ExtractField(src.Groups, sg.ID))
		assigned := field.WriteBack(store, tg, TransferWeightThreshold, !p.ClearTargetFirst)

		if assigned == 0 && p.RemoveEmptyGroups {
			if err := store.DeleteGroup(tg); err != nil {
				return stats, fmt.Errorf("remove empty group %q: %w", sg.Name, err)
			}
			stats.removed++
		} else {
			stats.written++
		}
		tracker.Tick()
	}
	tracker.Done()

	if groups := store.Groups(); len(groups) > 0 {
		if err := store.SetActiveGroup(groups[0].ID); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
