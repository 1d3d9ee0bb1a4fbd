package relay

import "sync"

// Shared is a value several holders read and write under a guard. Readers
// run concurrently; a writer has the value to itself.
type Shared[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewShared wraps v.
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{v: v}
}

// Read calls fn with the value under a read guard.
func (s *Shared[T]) Read(fn func(v T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.v)
}

// Write calls fn with the value under the write guard.
func (s *Shared[T]) Write(fn func(v *T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.v)
}

// Get returns a copy of the value.
func (s *Shared[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Swap stores v and returns the previous value.
func (s *Shared[T]) Swap(v T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.v
	s.v = v
	return old
}
