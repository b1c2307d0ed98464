package stack

import "errors"

var (
	ErrOverflow  = errors.New("stack overflow")
	ErrUnderflow = errors.New("stack underflow")
)

// Stack is a LIFO stack. A positive capacity makes it fixed-size:
// pushing past it fails instead of growing.
type Stack[T any] struct {
	a        []T
	capacity int
}

// NewStack creates a new unbounded stack instance
func NewStack[T any](elm ...T) *Stack[T] {
	stack := Stack[T]{
		a: make([]T, 0, len(elm)),
	}

	stack.a = append(stack.a, elm...)

	return &stack
}

// NewFixed creates a stack that holds at most capacity elements.
// A non-positive capacity still yields a bounded stack of one element.
func NewFixed[T any](capacity int) *Stack[T] {
	capacity = max(capacity, 1)
	return &Stack[T]{
		a:        make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) error {
	if s.capacity > 0 && len(s.a) >= s.capacity {
		return ErrOverflow
	}

	s.a = append(s.a, elm)
	return nil
}

// Pop removes and returns the top element of the stack
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.a) < 1 {
		return zero, ErrUnderflow
	}

	l := len(s.a) - 1
	elm := s.a[l]
	s.a[l] = zero
	s.a = s.a[:l]

	return elm, nil
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (T, error) {
	if len(s.a) < 1 {
		var zero T
		return zero, ErrUnderflow
	}

	return s.a[len(s.a)-1], nil
}

// PeekOr returns the top element, or fallback when the stack is empty
func (s *Stack[T]) PeekOr(fallback T) T {
	if len(s.a) < 1 {
		return fallback
	}

	return s.a[len(s.a)-1]
}

// Get the size of the stack
func (s *Stack[T]) Size() int {
	return len(s.a)
}

// Capacity returns the fixed capacity, or 0 for an unbounded stack
func (s *Stack[T]) Capacity() int {
	return s.capacity
}

// Clear removes every element
func (s *Stack[T]) Clear() {
	clear(s.a)
	s.a = s.a[:0]
}

// Array returns the underlying array of the stack, bottom first
func (s *Stack[T]) Array() []T {
	return s.a
}
