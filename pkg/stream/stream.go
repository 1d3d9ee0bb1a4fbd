package stream

import (
	"context"
	"iter"
)

// Poll is the outcome of a non-blocking read from a Stream.
type Poll uint8

const (
	// Pending means no value is available right now.
	Pending Poll = iota
	// Ready means a value was returned.
	Ready
	// Done means the stream has ended and will never yield again.
	Done
)

// String returns the string representation of the Poll.
func (p Poll) String() string {
	switch p {
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Stream is a lazy, single-consumer sequence of values.
//
// Next blocks until a value is available, the stream ends, or ctx is done.
// It reports false in the latter two cases. TryNext never blocks.
type Stream[T any] interface {
	Next(ctx context.Context) (T, bool)
	TryNext() (T, Poll)
}

// Idler is implemented by streams that can tell they will never yield again
// even though they have not ended. Now values are idle once consumed.
type Idler interface {
	Idle() bool
}

// IsIdle reports whether st will never yield another value.
func IsIdle(st any) bool {
	if i, ok := st.(Idler); ok {
		return i.Idle()
	}
	return false
}

// Closer is implemented by streams that hold a channel handle. Closing
// releases the handle, so senders see channel.ErrClosed once nobody else
// receives. Closing twice is allowed.
type Closer interface {
	Close()
}

// Close closes st if it is a Closer and does nothing otherwise.
func Close(st any) {
	if c, ok := st.(Closer); ok {
		c.Close()
	}
}

// Exhaust pulls every value that is available without blocking.
// done reports whether the stream ended or went idle while being drained.
func Exhaust[T any](st Stream[T]) (items []T, done bool) {
	for {
		v, p := st.TryNext()
		switch p {
		case Ready:
			items = append(items, v)
		case Done:
			return items, true
		default:
			return items, IsIdle(st)
		}
	}
}

// Take reads up to n values, stopping early if the stream ends or ctx is done.
func Take[T any](ctx context.Context, st Stream[T], n int) []T {
	out := make([]T, 0, n)
	for len(out) < n {
		v, ok := st.Next(ctx)
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// All ranges over the stream until it ends or ctx is done.
func All[T any](ctx context.Context, st Stream[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := st.Next(ctx)
			if !ok || !yield(v) {
				return
			}
		}
	}
}
