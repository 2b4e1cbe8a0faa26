package nav

import "errors"

// ErrEmptyStack is returned when the current element of an empty stack is
// requested.
var ErrEmptyStack = errors.New("empty stack")

// Backstack is an ordered stack; the last element is the current one.
type Backstack[T any] struct {
	items []T
}

// NewBackstack returns a stack holding initial, bottom first.
func NewBackstack[T any](initial ...T) *Backstack[T] {
	return &Backstack[T]{items: append([]T(nil), initial...)}
}

// Push appends item on top.
func (s *Backstack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top element only while more than one remains.
func (s *Backstack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) <= 1 {
		return zero, false
	}
	return s.remove(), true
}

// PopForced removes the top element even when it is the last one. The caller
// is expected to push a replacement straight away.
func (s *Backstack[T]) PopForced() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.remove(), true
}

func (s *Backstack[T]) remove() T {
	var zero T
	last := len(s.items) - 1
	top := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return top
}

// Current returns the top element.
func (s *Backstack[T]) Current() (T, error) {
	if len(s.items) == 0 {
		var zero T
		return zero, ErrEmptyStack
	}
	return s.items[len(s.items)-1], nil
}

// Len reports the stack depth.
func (s *Backstack[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the stack, bottom first.
func (s *Backstack[T]) Items() []T {
	return append([]T(nil), s.items...)
}
