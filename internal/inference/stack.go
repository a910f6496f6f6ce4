package inference

// stack keeps frames bottom to top; views are returned innermost first.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) { s.items = append(s.items, v) }

func (s *stack[T]) pop() T {
	var zero T
	if len(s.items) == 0 {
		return zero
	}
	v := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v
}

func (s *stack[T]) peek() T {
	var zero T
	if len(s.items) == 0 {
		return zero
	}
	return s.items[len(s.items)-1]
}

func (s *stack[T]) depth() int { return len(s.items) }

// truncate drops every frame above depth n.
func (s *stack[T]) truncate(n int) {
	for len(s.items) > n {
		s.pop()
	}
}

func (s *stack[T]) view() []T {
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[len(s.items)-1-i] = v
	}
	return out
}
