package vgroup

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/emirpasic/gods/maps/treemap"
)

// groupEntry is the registry value for one group.
type groupEntry struct {
	name    string
	members *roaring.Bitmap
}

// MemoryStore is an in-memory Store. Groups live in a treemap keyed by
// GroupID; IDs are handed out in creation order, so key order is host order.
// Each group tracks its assigned vertices in a roaring bitmap so callers can
// walk only the vertices that carry the group.
type MemoryStore struct {
	groups  *treemap.Map // GroupID -> *groupEntry
	byName  map[string]GroupID
	weights []SparseWeight
	active  GroupID
	nextID  GroupID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store for vertexCount vertices.
func NewMemoryStore(vertexCount int) *MemoryStore {
	return &MemoryStore{
		groups:  treemap.NewWithIntComparator(),
		byName:  make(map[string]GroupID),
		weights: make([]SparseWeight, vertexCount),
		active:  NoGroup,
	}
}

func (s *MemoryStore) VertexCount() int { return len(s.weights) }

func (s *MemoryStore) entry(id GroupID) (*groupEntry, bool) {
	v, ok := s.groups.Get(int(id))
	if !ok {
		return nil, false
	}
	return v.(*groupEntry), true
}

func (s *MemoryStore) mustEntry(id GroupID) *groupEntry {
	e, ok := s.entry(id)
	if !ok {
		panic(fmt.Sprintf("vgroup: unknown group %d", id))
	}
	return e
}

func (s *MemoryStore) Groups() []Group {
	out := make([]Group, 0, s.groups.Size())
	it := s.groups.Iterator()
	for it.Next() {
		out = append(out, Group{
			ID:    GroupID(it.Key().(int)),
			Name:  it.Value().(*groupEntry).name,
			Index: len(out),
		})
	}
	return out
}

func (s *MemoryStore) Group(id GroupID) (Group, bool) {
	for _, g := range s.Groups() {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

func (s *MemoryStore) GroupByName(name string) (GroupID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

func (s *MemoryStore) CreateGroup(name string) (GroupID, error) {
	if name == "" {
		return NoGroup, ErrEmptyGroupName
	}
	if _, exists := s.byName[name]; exists {
		return NoGroup, fmt.Errorf("%w: %q", ErrDuplicateGroup, name)
	}
	id := s.nextID
	s.nextID++
	s.groups.Put(int(id), &groupEntry{name: name, members: roaring.New()})
	s.byName[name] = id
	return id, nil
}

// DeleteGroup removes id. If it was active, the group before it in host
// order becomes active (or the new first group, or none).
func (s *MemoryStore) DeleteGroup(id GroupID) error {
	e, ok := s.entry(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, id)
	}

	if s.active == id {
		s.active = NoGroup
		if g, ok := s.Group(id); ok && g.Index > 0 {
			s.active = s.Groups()[g.Index-1].ID
		}
	}

	it := e.members.Iterator()
	for it.HasNext() {
		delete(s.weights[it.Next()], id)
	}
	s.groups.Remove(int(id))
	delete(s.byName, e.name)

	if s.active == NoGroup && s.groups.Size() > 0 {
		k, _ := s.groups.Min()
		s.active = GroupID(k.(int))
	}
	return nil
}

func (s *MemoryStore) ActiveGroup() (GroupID, bool) {
	if s.active == NoGroup {
		return NoGroup, false
	}
	return s.active, true
}

func (s *MemoryStore) SetActiveGroup(id GroupID) error {
	if _, ok := s.entry(id); !ok {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, id)
	}
	s.active = id
	return nil
}

func (s *MemoryStore) Weights(v VertexID) SparseWeight {
	src := s.weights[v]
	out := make(SparseWeight, len(src))
	for g, w := range src {
		out[g] = w
	}
	return out
}

func (s *MemoryStore) Weight(v VertexID, g GroupID) (float64, bool) {
	w, ok := s.weights[v][g]
	return w, ok
}

func (s *MemoryStore) SetWeight(v VertexID, g GroupID, w float64) {
	e := s.mustEntry(g)
	if s.weights[v] == nil {
		s.weights[v] = make(SparseWeight, 2)
	}
	s.weights[v][g] = w
	e.members.Add(uint32(v))
}

func (s *MemoryStore) ClearWeight(v VertexID, g GroupID) {
	e := s.mustEntry(g)
	if _, ok := s.weights[v][g]; !ok {
		return
	}
	delete(s.weights[v], g)
	e.members.Remove(uint32(v))
}

func (s *MemoryStore) Members(g GroupID) []VertexID {
	e := s.mustEntry(g)
	ids := e.members.ToArray()
	out := make([]VertexID, len(ids))
	for i, id := range ids {
		out[i] = VertexID(id)
	}
	return out
}

// MemberCount returns how many vertices are assigned in g.
func (s *MemoryStore) MemberCount(g GroupID) int {
	return int(s.mustEntry(g).members.GetCardinality())
}

// Clone returns a deep copy.
func (s *MemoryStore) Clone() *MemoryStore {
	c := &MemoryStore{
		groups:  treemap.NewWithIntComparator(),
		byName:  make(map[string]GroupID, len(s.byName)),
		weights: make([]SparseWeight, len(s.weights)),
		active:  s.active,
		nextID:  s.nextID,
	}
	it := s.groups.Iterator()
	for it.Next() {
		e := it.Value().(*groupEntry)
		c.groups.Put(it.Key(), &groupEntry{name: e.name, members: e.members.Clone()})
	}
	for name, id := range s.byName {
		c.byName[name] = id
	}
	for v, sw := range s.weights {
		if sw == nil {
			continue
		}
		cp := make(SparseWeight, len(sw))
		for g, w := range sw {
			cp[g] = w
		}
		c.weights[v] = cp
	}
	return c
}
