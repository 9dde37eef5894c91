// Package selection tracks the example tokens chosen for the current trait.
package selection

// Set is an insertion-ordered set of token ids. The zero value is empty
// and ready to use.
type Set struct {
	ids   []int
	index map[int]struct{}
}

// New returns a set holding ids in order, ignoring repeats.
func New(ids ...int) *Set {
	s := &Set{}
	for _, id := range ids {
		if !s.Contains(id) {
			s.add(id)
		}
	}
	return s
}

func (s *Set) add(id int) {
	if s.index == nil {
		s.index = make(map[int]struct{})
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Set) Toggle(id int) bool {
	if !s.Contains(id) {
		s.add(id)
		return true
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return false
}

// Contains reports whether id is selected.
func (s *Set) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected ids in the order they were added.
func (s *Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clear empties the set.
func (s *Set) Clear() {
	s.ids = nil
	s.index = nil
}
