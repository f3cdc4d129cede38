package vgroup

// OtherWeightTotal sums v's assigned weights in every group except g, in
// host group order.
func OtherWeightTotal(s Store, v VertexID, g GroupID) float64 {
	var total float64
	for _, other := range s.Groups() {
		if other.ID == g {
			continue
		}
		if w, ok := s.Weight(v, other.ID); ok {
			total += w
		}
	}
	return total
}

// Normalize compensates a change of v's weight in changed from oldW to newW
// by rescaling v's other assigned groups so that their total moves by the
// opposite amount, clamped at zero. It reports whether anything was
// rescaled; with no other weight on the vertex there is nothing to
// redistribute.
//
// Calls are applied immediately, so normalizing several groups on the same
// vertex compounds sequentially in call order. Other groups are visited in
// host order so repeated runs produce identical floating-point results.
func Normalize(s Store, v VertexID, changed GroupID, oldW, newW float64) bool {
	total := OtherWeightTotal(s, v, changed)
	if total <= 0 {
		return false
	}

	scaled := total - (newW - oldW)
	if scaled < 0 {
		scaled = 0
	}
	factor := scaled / total

	for _, g := range s.Groups() {
		if g.ID == changed {
			continue
		}
		if w, ok := s.Weight(v, g.ID); ok {
			s.SetWeight(v, g.ID, w*factor)
		}
	}
	return true
}
