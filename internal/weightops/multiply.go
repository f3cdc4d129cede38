package weightops

import (
	"fmt"

	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// Multiply scales the selected groups' weights by Value. Only vertices
// with an explicit assignment (including an explicit 0) are touched.
// With NormalizeOthers each vertex's other groups are rescaled right after
// its weight changes.
func (e *Engine) Multiply(obj *mesh.Object, p MultiplyParams) error {
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
	start := e.clock.Now()

	store := obj.Groups
	touched := 0
	tracker := progress.Start(e.progress, len(targets))
	for _, g := range targets {
		for _, v := range store.Members(g) {
			old, _ := store.Weight(v, g)
			scaled := old * p.Value
			store.SetWeight(v, g, scaled)
			if p.NormalizeOthers {
				vgroup.Normalize(store, v, g, old, scaled)
			}
			touched++
		}
		tracker.Tick()
	}
	tracker.Done()

	e.finish(start, "multiply %s: %d groups x%.3g, %d weights", obj.Name, len(targets), p.Value, touched)
	return nil
}
