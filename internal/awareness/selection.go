package awareness

import "sort"

// Selection is the set of GM-selected token ids.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Control adds id when controlled is true and removes it otherwise.
func (s *Selection) Control(id string, controlled bool) {
	if controlled {
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.ids)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the number of selected tokens.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
