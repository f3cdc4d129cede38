// Package geom holds the small amount of 3D math the weight engine needs:
// points as gonum r3 vectors and 4x4 row-major affine transforms that move
// mesh-local vertex positions into a shared world frame.
//
// Source and target meshes generally carry different object transforms, so
// every cross-mesh query must run on world-space points.
package geom
