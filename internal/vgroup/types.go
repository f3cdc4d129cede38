package vgroup

import "errors"

// VertexID indexes a mesh's ordered vertex sequence (0-based).
type VertexID int

// GroupID is a stable handle for a named vertex group.
type GroupID int

// NoGroup is returned where no group applies.
const NoGroup GroupID = -1

// SparseWeight maps groups to weights for one vertex. Absent groups weigh 0.
// An explicit 0 entry is still an assignment.
type SparseWeight map[GroupID]float64

// Group describes one vertex group. Index is the group's position in the
// host's group order and is what ABOVE/BELOW selection compares.
type Group struct {
	ID    GroupID
	Name  string
	Index int
}

var (
	// ErrNoActiveGroup is returned when an operation needs an active group
	// and the store has none.
	ErrNoActiveGroup = errors.New("no active vertex group")
	// ErrGroupNotFound is returned for an unknown GroupID.
	ErrGroupNotFound = errors.New("vertex group not found")
	// ErrDuplicateGroup is returned when creating a group whose name is taken.
	ErrDuplicateGroup = errors.New("vertex group already exists")
	// ErrEmptyGroupName is returned when creating a group without a name.
	ErrEmptyGroupName = errors.New("vertex group name is empty")
)

// Store is the host's vertex-group storage as seen by the weight engines.
//
// Weight reads and writes take vertex and group handles that the caller got
// from the same store; passing anything else is a programming error and
// implementations may panic.
type Store interface {
	// VertexCount returns the number of vertices weights are kept for.
	VertexCount() int

	// Groups lists every group in host order.
	Groups() []Group
	// Group returns the group with the given ID.
	Group(id GroupID) (Group, bool)
	// GroupByName looks a group up by name.
	GroupByName(name string) (GroupID, bool)
	// CreateGroup appends a new, empty group.
	CreateGroup(name string) (GroupID, error)
	// DeleteGroup removes a group and all of its assignments.
	DeleteGroup(id GroupID) error

	// ActiveGroup returns the active group, if any.
	ActiveGroup() (GroupID, bool)
	// SetActiveGroup makes id the active group.
	SetActiveGroup(id GroupID) error

	// Weights returns a copy of v's assignments.
	Weights(v VertexID) SparseWeight
	// Weight returns v's weight in g and whether it is assigned.
	Weight(v VertexID, g GroupID) (float64, bool)
	// SetWeight assigns (or replaces) v's weight in g.
	SetWeight(v VertexID, g GroupID, w float64)
	// ClearWeight removes v's assignment in g, if any.
	ClearWeight(v VertexID, g GroupID)
	// Members lists the vertices assigned in g, ascending.
	Members(g GroupID) []VertexID
}
