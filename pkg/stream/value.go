package stream

import (
	"context"
	"sync"
)

// Now returns a stream that yields v once and then stays idle forever.
// It never completes.
func Now[T any](v T) Stream[T] {
	return &once[T]{v: v}
}

// Later is the identity; it documents that values arrive over time.
func Later[T any](st Stream[T]) Stream[T] {
	return st
}

// NowAndLater yields v and then every value of st.
func NowAndLater[T any](v T, st Stream[T]) Stream[T] {
	return Chain[T](Now(v), st)
}

type once[T any] struct {
	mu    sync.Mutex
	v     T
	taken bool
}

func (o *once[T]) TryNext() (T, Poll) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.taken {
		o.taken = true
		v := o.v
		var zero T
		o.v = zero
		return v, Ready
	}
	var zero T
	return zero, Pending
}

func (o *once[T]) Next(ctx context.Context) (T, bool) {
	if v, p := o.TryNext(); p == Ready {
		return v, true
	}
	<-ctx.Done()
	var zero T
	return zero, false
}

func (o *once[T]) Idle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.taken
}

// Iter yields vs in order and then ends.
func Iter[T any](vs ...T) Stream[T] {
	return &slice[T]{items: vs}
}

type slice[T any] struct {
	items []T
	pos   int
}

func (s *slice[T]) TryNext() (T, Poll) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, Done
	}
	v := s.items[s.pos]
	s.pos++
	return v, Ready
}

func (s *slice[T]) Next(ctx context.Context) (T, bool) {
	if ctx.Err() != nil {
		var zero T
		return zero, false
	}
	v, p := s.TryNext()
	return v, p == Ready
}

// Never returns a stream that never yields and never ends.
func Never[T any]() Stream[T] {
	return never[T]{}
}

type never[T any] struct{}

func (never[T]) TryNext() (T, Poll) {
	var zero T
	return zero, Pending
}

func (never[T]) Next(ctx context.Context) (T, bool) {
	<-ctx.Done()
	var zero T
	return zero, false
}

func (never[T]) Idle() bool { return true }

// Chain yields every value of first, then every value of rest. A first
// stream that goes idle counts as finished.
func Chain[T any](first, rest Stream[T]) Stream[T] {
	return &chain[T]{first: first, rest: rest}
}

type chain[T any] struct {
	first     Stream[T]
	rest      Stream[T]
	firstDone bool
}

func (c *chain[T]) TryNext() (T, Poll) {
	if !c.firstDone {
		v, p := c.first.TryNext()
		switch {
		case p == Ready:
			return v, Ready
		case p == Done || IsIdle(c.first):
			c.firstDone = true
		default:
			return v, Pending
		}
	}
	return c.rest.TryNext()
}

func (c *chain[T]) Next(ctx context.Context) (T, bool) {
	for !c.firstDone {
		if IsIdle(c.first) {
			c.firstDone = true
			break
		}
		v, ok := c.first.Next(ctx)
		if ok {
			return v, true
		}
		if ctx.Err() != nil {
			var zero T
			return zero, false
		}
		c.firstDone = true
	}
	return c.rest.Next(ctx)
}

func (c *chain[T]) Idle() bool {
	return (c.firstDone || IsIdle(c.first)) && IsIdle(c.rest)
}

// Close closes both halves.
func (c *chain[T]) Close() {
	Close(c.first)
	Close(c.rest)
}
