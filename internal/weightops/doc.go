// Package weightops implements the vertex-group weight operations:
//
//   - QuickTransfer copies each target vertex's weights from its nearest
//     source vertex.
//   - PrecisionTransfer blends source weights inside a radius around each
//     target vertex with a linear falloff.
//   - Blur smooths groups by averaging over a fixed-radius neighborhood.
//   - Multiply scales assigned weights.
//
// Blur and Multiply can renormalize a vertex's other groups after each
// change (see vgroup.Normalize). Every operation validates its inputs
// before touching the store and builds at most one spatial index, whose
// neighbor results are reused across all groups.
package weightops
