// Package spatial provides the point index shared by every weight operation.
//
// A SpatialIndex is built once per operation from labeled 3D points and is
// read-only afterwards. It answers nearest-point and fixed-radius queries.
// Callers are responsible for putting all points into one coordinate frame
// before building.
package spatial
