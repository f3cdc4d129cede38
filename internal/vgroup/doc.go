// Package vgroup models named vertex groups: sparse per-vertex weights,
// the Store interface a host exposes them through, dense per-group fields
// used by the weight engines, and the shared normalization rule that keeps
// a vertex's total weight stable when one group changes.
package vgroup
