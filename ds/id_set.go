package ds

import (
	"sort"
)

func NewIdSet[T ~int | ~int32 | ~int64 | ~uint32](defCap int) *IdSet[T] {
	return &IdSet[T]{
		idToIdx: make(map[T]int, defCap),
		ids:     make([]T, 0, defCap),
	}
}

// IdSet is a set of ids iterated in ascending order.
type IdSet[T ~int | ~int32 | ~int64 | ~uint32] struct {
	idToIdx map[T]int
	ids     []T
	sorted  bool
}

func (s *IdSet[T]) Count() int {
	return len(s.ids)
}

func (s *IdSet[T]) Add(id T) bool {
	if _, ok := s.idToIdx[id]; ok {
		return false
	}
	if n := len(s.ids); n == 0 {
		s.sorted = true
	} else if s.ids[n-1] > id {
		s.sorted = false
	}
	s.idToIdx[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *IdSet[T]) Has(id T) bool {
	_, ok := s.idToIdx[id]
	return ok
}

func (s *IdSet[T]) Del(id T) bool {
	idx, ok := s.idToIdx[id]
	if !ok {
		return false
	}
	delete(s.idToIdx, id)
	last := len(s.ids) - 1
	if idx != last {
		moved := s.ids[last]
		s.ids[idx] = moved
		s.idToIdx[moved] = idx
		s.sorted = false
	}
	s.ids = s.ids[:last]
	return true
}

func (s *IdSet[T]) sort() {
	if s.sorted {
		return
	}
	sort.Slice(s.ids, func(i, j int) bool {
		return s.ids[i] < s.ids[j]
	})
	for i, id := range s.ids {
		s.idToIdx[id] = i
	}
	s.sorted = true
}

// Values returns the ids in ascending order, the slice is owned by the set.
func (s *IdSet[T]) Values() []T {
	s.sort()
	return s.ids
}

func (s *IdSet[T]) Iter(fn func(T)) {
	for _, id := range s.Values() {
		fn(id)
	}
}

func (s *IdSet[T]) Reset() {
	if len(s.ids) == 0 {
		return
	}
	for k := range s.idToIdx {
		delete(s.idToIdx, k)
	}
	s.ids = s.ids[:0]
	s.sorted = true
}
