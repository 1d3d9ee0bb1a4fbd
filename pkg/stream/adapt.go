package stream

import (
	"context"

	channerics "github.com/niceyeti/channerics/channels"
)

// Map transforms each value of st with f.
func Map[A, B any](st Stream[A], f func(A) B) Stream[B] {
	return &mapped[A, B]{src: st, f: f}
}

type mapped[A, B any] struct {
	src Stream[A]
	f   func(A) B
}

func (m *mapped[A, B]) TryNext() (B, Poll) {
	v, p := m.src.TryNext()
	if p != Ready {
		var zero B
		return zero, p
	}
	return m.f(v), Ready
}

func (m *mapped[A, B]) Next(ctx context.Context) (B, bool) {
	v, ok := m.src.Next(ctx)
	if !ok {
		var zero B
		return zero, false
	}
	return m.f(v), true
}

func (m *mapped[A, B]) Idle() bool { return IsIdle(m.src) }

func (m *mapped[A, B]) Close() { Close(m.src) }

// FilterMap transforms values with f and drops those for which f reports false.
func FilterMap[A, B any](st Stream[A], f func(A) (B, bool)) Stream[B] {
	return &filterMapped[A, B]{src: st, f: f}
}

type filterMapped[A, B any] struct {
	src Stream[A]
	f   func(A) (B, bool)
}

func (m *filterMapped[A, B]) TryNext() (B, Poll) {
	for {
		v, p := m.src.TryNext()
		if p != Ready {
			var zero B
			return zero, p
		}
		if out, keep := m.f(v); keep {
			return out, Ready
		}
	}
}

func (m *filterMapped[A, B]) Next(ctx context.Context) (B, bool) {
	for {
		v, ok := m.src.Next(ctx)
		if !ok {
			var zero B
			return zero, false
		}
		if out, keep := m.f(v); keep {
			return out, true
		}
	}
}

func (m *filterMapped[A, B]) Idle() bool { return IsIdle(m.src) }

func (m *filterMapped[A, B]) Close() { Close(m.src) }

// FlatMap expands each value of st into zero or more values.
func FlatMap[A, B any](st Stream[A], f func(A) []B) Stream[B] {
	return &flatMapped[A, B]{src: st, f: f}
}

type flatMapped[A, B any] struct {
	src Stream[A]
	f   func(A) []B
	buf []B
}

func (m *flatMapped[A, B]) pop() B {
	v := m.buf[0]
	m.buf = m.buf[1:]
	return v
}

func (m *flatMapped[A, B]) TryNext() (B, Poll) {
	for len(m.buf) == 0 {
		v, p := m.src.TryNext()
		if p != Ready {
			var zero B
			return zero, p
		}
		m.buf = m.f(v)
	}
	return m.pop(), Ready
}

func (m *flatMapped[A, B]) Next(ctx context.Context) (B, bool) {
	for len(m.buf) == 0 {
		v, ok := m.src.Next(ctx)
		if !ok {
			var zero B
			return zero, false
		}
		m.buf = m.f(v)
	}
	return m.pop(), true
}

func (m *flatMapped[A, B]) Idle() bool { return len(m.buf) == 0 && IsIdle(m.src) }

func (m *flatMapped[A, B]) Close() { Close(m.src) }

// FromChan adapts a plain Go channel. The stream ends when ch is closed.
func FromChan[T any](ch <-chan T) Stream[T] {
	return &fromChan[T]{ch: ch}
}

type fromChan[T any] struct {
	ch <-chan T
}

func (c *fromChan[T]) TryNext() (T, Poll) {
	select {
	case v, ok := <-c.ch:
		if !ok {
			return v, Done
		}
		return v, Ready
	default:
		var zero T
		return zero, Pending
	}
}

func (c *fromChan[T]) Next(ctx context.Context) (T, bool) {
	select {
	case v, ok := <-c.ch:
		return v, ok
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Convert reads a Go channel, transforming each value with f in a
// goroutine that stops when done is closed.
func Convert[A, B any](done <-chan struct{}, in <-chan A, f func(A) B) Stream[B] {
	return FromChan(channerics.Convert(done, in, f))
}

// Fanout copies every value of in to n independent streams.
func Fanout[T any](done <-chan struct{}, in <-chan T, n int) []Stream[T] {
	outs := channerics.Broadcast(done, in, n)
	streams := make([]Stream[T], 0, len(outs))
	for _, out := range outs {
		streams = append(streams, FromChan(out))
	}
	return streams
}

// Merge interleaves the values of several Go channels into one stream that
// ends once every input is closed.
func Merge[T any](done <-chan struct{}, ins ...<-chan T) Stream[T] {
	return FromChan(channerics.Merge(done, ins...))
}
