package vgroup

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumWeights(sw SparseWeight) float64 {
	var t float64
	for _, w := range sw {
		t += w
	}
	return t
}

func TestNormalize_Redistributes(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(1)
	a, _ := s.CreateGroup("A")
	b, _ := s.CreateGroup("B")
	c, _ := s.CreateGroup("C")
	s.SetWeight(0, a, 0.2)
	s.SetWeight(0, b, 0.6)
	s.SetWeight(0, c, 0.2)

	// A grows from 0.2 to 0.4; B and C share the loss proportionally.
	s.SetWeight(0, a, 0.4)
	require.True(t, Normalize(s, 0, a, 0.2, 0.4))

	want := SparseWeight{a: 0.4, b: 0.45, c: 0.15}
	if diff := cmp.Diff(want, s.Weights(0), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ClampsAtZero(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(1)
	a, _ := s.CreateGroup("A")
	b, _ := s.CreateGroup("B")
	s.SetWeight(0, a, 2.0)
	s.SetWeight(0, b, 0.5)

	require.True(t, Normalize(s, 0, a, 0.5, 2.0))
	w, ok := s.Weight(0, b)
	assert.True(t, ok, "scaled-to-zero groups stay assigned")
	assert.Zero(t, w)
}

func TestNormalize_NoOtherWeight(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(1)
	a, _ := s.CreateGroup("A")
	b, _ := s.CreateGroup("B")
	s.SetWeight(0, a, 0.9)
	s.SetWeight(0, b, 0)

	assert.False(t, Normalize(s, 0, a, 0.5, 0.9))
	assert.Equal(t, SparseWeight{a: 0.9, b: 0}, s.Weights(0))
	assert.Zero(t, OtherWeightTotal(s, 0, a))
}

func TestNormalize_ConservesTotal(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		s := NewMemoryStore(1)
		var ids []GroupID
		for i := 0; i < 4; i++ {
			id, _ := s.CreateGroup(string(rune('A' + i)))
			ids = append(ids, id)
			s.SetWeight(0, id, rng.Float64())
		}
		changed := ids[rng.Intn(len(ids))]
		oldW, _ := s.Weight(0, changed)
		others := OtherWeightTotal(s, 0, changed)
		// Keep the shrink within what the other groups can absorb.
		newW := oldW + (rng.Float64()*2-1)*others*0.9
		if newW < 0 {
			newW = 0
		}
		before := others + oldW

		s.SetWeight(0, changed, newW)
		Normalize(s, 0, changed, oldW, newW)

		assert.InDelta(t, before, sumWeights(s.Weights(0)), 1e-9, "trial %d", trial)
	}
}

func TestNormalize_HostOrderIsRepeatable(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(11))

	base := NewMemoryStore(1)
	var ids []GroupID
	for i := 0; i < 16; i++ {
		id, _ := base.CreateGroup(string(rune('A' + i)))
		ids = append(ids, id)
		// Mixed magnitudes make the sum sensitive to summation order.
		base.SetWeight(0, id, rng.Float64()*float64(int(1)<<uint(i%8))*1e-3)
	}
	changed := ids[3]

	var want float64
	for _, g := range base.Groups() {
		if g.ID == changed {
			continue
		}
		w, _ := base.Weight(0, g.ID)
		want += w
	}
	assert.Equal(t, want, OtherWeightTotal(base, 0, changed))

	oldW, _ := base.Weight(0, changed)
	run := func() SparseWeight {
		s := base.Clone()
		s.SetWeight(0, changed, oldW+0.05)
		Normalize(s, 0, changed, oldW, oldW+0.05)
		return s.Weights(0)
	}
	first := run()
	for i := 0; i < 50; i++ {
		require.Equal(t, first, run(), "run %d", i)
	}
}
