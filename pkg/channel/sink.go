package channel

import (
	"context"
	"errors"
	"sync"
)

// Sink accepts values. Senders of both channel kinds are sinks.
type Sink[T any] interface {
	// TrySend delivers v without waiting. It returns ErrFull or ErrClosed.
	TrySend(v T) error
	// Send delivers v, waiting for room.
	Send(ctx context.Context, v T) error
}

var (
	_ Sink[int] = (*Sender[int])(nil)
	_ Sink[int] = (*BroadcastSender[int])(nil)
)

// SinkFunc adapts a function to a Sink. Both methods call f.
type SinkFunc[T any] func(v T) error

func (f SinkFunc[T]) TrySend(v T) error { return f(v) }

func (f SinkFunc[T]) Send(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f(v)
}

// ContraMap returns a sink that transforms values with f before handing them
// to s.
func ContraMap[X, Y any](s Sink[Y], f func(X) Y) Sink[X] {
	return contraMapped[X, Y]{s: s, f: f}
}

type contraMapped[X, Y any] struct {
	s Sink[Y]
	f func(X) Y
}

func (c contraMapped[X, Y]) TrySend(v X) error { return c.s.TrySend(c.f(v)) }

func (c contraMapped[X, Y]) Send(ctx context.Context, v X) error {
	return c.s.Send(ctx, c.f(v))
}

// ContraFilterMap is ContraMap for functions that may reject a value.
// Rejected values are accepted and dropped.
func ContraFilterMap[X, Y any](s Sink[Y], f func(X) (Y, bool)) Sink[X] {
	return contraFilterMapped[X, Y]{s: s, f: f}
}

type contraFilterMapped[X, Y any] struct {
	s Sink[Y]
	f func(X) (Y, bool)
}

func (c contraFilterMapped[X, Y]) TrySend(v X) error {
	y, ok := c.f(v)
	if !ok {
		return nil
	}
	return c.s.TrySend(y)
}

func (c contraFilterMapped[X, Y]) Send(ctx context.Context, v X) error {
	y, ok := c.f(v)
	if !ok {
		return nil
	}
	return c.s.Send(ctx, y)
}

// DefaultPendingLimit is the pending queue size used by NewPendingSink when
// the limit is not positive.
const DefaultPendingLimit = 16

// PendingSink buffers values that could not be delivered yet. Feed accepts a
// value without delivering it and Flush delivers everything queued, in order.
type PendingSink[T any] struct {
	mu      sync.Mutex
	inner   Sink[T]
	pending []T
	limit   int
	closed  bool
}

// NewPendingSink wraps inner with a pending queue of at most limit values.
func NewPendingSink[T any](inner Sink[T], limit int) *PendingSink[T] {
	if limit <= 0 {
		limit = DefaultPendingLimit
	}
	return &PendingSink[T]{inner: inner, limit: limit}
}

// Feed queues v for a later Flush.
func (p *PendingSink[T]) Feed(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if len(p.pending) >= p.limit {
		return ErrFull
	}
	p.pending = append(p.pending, v)
	return nil
}

// Flush delivers queued values in order, waiting for room as needed.
// ErrClosed is terminal: the queue is dropped and later calls fail.
func (p *PendingSink[T]) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.pending) > 0 {
		if err := p.inner.Send(ctx, p.pending[0]); err != nil {
			p.failLocked(err)
			return err
		}
		p.popLocked()
	}
	return nil
}

// TrySend delivers whatever is queued and then v, without waiting. When the
// inner sink is full, v is queued instead and nil is returned; ErrFull is
// returned only when the pending queue is full too.
func (p *PendingSink[T]) TrySend(v T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	for len(p.pending) > 0 {
		err := p.inner.TrySend(p.pending[0])
		if errors.Is(err, ErrFull) {
			break
		}
		if err != nil {
			p.failLocked(err)
			return err
		}
		p.popLocked()
	}
	if len(p.pending) == 0 {
		err := p.inner.TrySend(v)
		if !errors.Is(err, ErrFull) {
			p.failLocked(err)
			return err
		}
	}
	if len(p.pending) >= p.limit {
		return ErrFull
	}
	p.pending = append(p.pending, v)
	return nil
}

// Send flushes the queue and then delivers v.
func (p *PendingSink[T]) Send(ctx context.Context, v T) error {
	if err := p.Flush(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	err := p.inner.Send(ctx, v)
	p.failLocked(err)
	return err
}

// Len returns the number of queued values.
func (p *PendingSink[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *PendingSink[T]) popLocked() {
	var zero T
	p.pending[0] = zero
	p.pending = p.pending[1:]
}

func (p *PendingSink[T]) failLocked(err error) {
	if errors.Is(err, ErrClosed) {
		p.closed = true
		p.pending = nil
	}
}
