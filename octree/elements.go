package octree

// Sets up to this size are searched linearly. Most leaves stay below it.
const linearScanLimit = 16

// elementSet is an insertion ordered set. The index map is only built once the set outgrows a
// linear scan.
type elementSet[E comparable] struct {
	items []E
	index map[E]struct{}
}

func (s *elementSet[E]) contains(e E) bool {
	if s.index != nil {
		_, ok := s.index[e]
		return ok
	}
	for _, item := range s.items {
		if item == e {
			return true
		}
	}
	return false
}

func (s *elementSet[E]) insert(e E) bool {
	if s.contains(e) {
		return false
	}
	s.items = append(s.items, e)
	switch {
	case s.index != nil:
		s.index[e] = struct{}{}
	case len(s.items) > linearScanLimit:
		s.index = make(map[E]struct{}, 2*len(s.items))
		for _, item := range s.items {
			s.index[item] = struct{}{}
		}
	}
	return true
}
