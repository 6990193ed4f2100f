package visitor

// ScopeStack tracks nested state during a walk. The zero value is empty and
// ready to use.
type ScopeStack[T any] struct {
	items []T
}

func (s *ScopeStack[T]) Push(v T) { s.items = append(s.items, v) }

// Pop removes and returns the innermost item. It reports false when empty.
func (s *ScopeStack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, true
}

// Peek returns a pointer to the innermost item so callers can update it in
// place. It returns nil when empty.
func (s *ScopeStack[T]) Peek() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

func (s *ScopeStack[T]) Len() int { return len(s.items) }

// Depth counts the items matching pred.
func (s *ScopeStack[T]) Depth(pred func(T) bool) int {
	n := 0
	for _, v := range s.items {
		if pred(v) {
			n++
		}
	}
	return n
}

// Any reports whether some item matches pred.
func (s *ScopeStack[T]) Any(pred func(T) bool) bool {
	for _, v := range s.items {
		if pred(v) {
			return true
		}
	}
	return false
}

// Find returns the innermost item matching pred.
func (s *ScopeStack[T]) Find(pred func(T) bool) *T {
	for i := len(s.items) - 1; i >= 0; i-- {
		if pred(s.items[i]) {
			return &s.items[i]
		}
	}
	return nil
}
