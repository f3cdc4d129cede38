package vgroup

import (
	"fmt"
	"strings"
)

// SelectMode picks which groups an operation targets relative to the
// active group.
type SelectMode int

const (
	// SelectActive targets only the active group.
	SelectActive SelectMode = iota
	// SelectAbove targets the active group and every group before it.
	SelectAbove
	// SelectBelow targets the active group and every group after it.
	SelectBelow
	// SelectAll targets every group.
	SelectAll
)

func (m SelectMode) String() string {
	switch m {
	case SelectActive:
		return "active"
	case SelectAbove:
		return "above"
	case SelectBelow:
		return "below"
	case SelectAll:
		return "all"
	default:
		return fmt.Sprintf("SelectMode(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes.
func (m SelectMode) Valid() bool {
	return m >= SelectActive && m <= SelectAll
}

// ParseSelectMode accepts the String form of a mode, case-insensitively.
func ParseSelectMode(s string) (SelectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return SelectActive, nil
	case "above", "up":
		return SelectAbove, nil
	case "below", "down":
		return SelectBelow, nil
	case "all":
		return SelectAll, nil
	}
	return SelectActive, fmt.Errorf("unknown group selection %q (want active, above, below or all)", s)
}

// SelectGroups resolves mode against the store's group order. The result
// is in ascending host order. Every mode requires an active group.
func SelectGroups(s Store, mode SelectMode) ([]GroupID, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown group selection %v", mode)
	}
	activeID, ok := s.ActiveGroup()
	if !ok {
		return nil, ErrNoActiveGroup
	}
	active, ok := s.Group(activeID)
	if !ok {
		return nil, fmt.Errorf("%w: active group %d", ErrGroupNotFound, activeID)
	}

	var out []GroupID
	for _, g := range s.Groups() {
		switch mode {
		case SelectActive:
			if g.ID == activeID {
				out = append(out, g.ID)
			}
		case SelectAbove:
			if g.Index <= active.Index {
				out = append(out, g.ID)
			}
		case SelectBelow:
			if g.Index >= active.Index {
				out = append(out, g.ID)
			}
		case SelectAll:
			out = append(out, g.ID)
		}
	}
	return out, nil
}
