package vgroup

// Field is a dense weight array for one group, indexed by VertexID.
type Field []float64

// ExtractField materializes g as a dense field with 0.0 where unassigned.
func ExtractField(s Store, g GroupID) Field {
	f := make(Field, s.VertexCount())
	for _, v := range s.Members(g) {
		w, _ := s.Weight(v, g)
		f[v] = w
	}
	return f
}

// WriteBack assigns every entry of f above threshold to g. When clearBelow
// is set the remaining vertices are cleared, which removes stale
// assignments left over from earlier passes. It returns the number of
// vertices assigned.
func (f Field) WriteBack(s Store, g GroupID, threshold float64, clearBelow bool) int {
	if len(f) != s.VertexCount() {
		panic("vgroup: field length does not match vertex count")
	}
	assigned := 0
	for i, w := range f {
		v := VertexID(i)
		if w > threshold {
			s.SetWeight(v, g, w)
			assigned++
		} else if clearBelow {
			s.ClearWeight(v, g)
		}
	}
	return assigned
}
