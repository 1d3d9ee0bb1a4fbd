package channel

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/rview/pkg/stream"
)

// queue is the shared state behind a point-to-point Sender/Receiver pair.
type queue[T any] struct {
	mu        sync.Mutex
	items     []T
	capacity  int // 0 means unbounded
	senders   int
	receivers int

	// changed is closed and replaced on every state change so that blocked
	// callers can wait on it together with their context.
	changed chan struct{}
}

func (q *queue[T]) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}

func (q *queue[T]) full() bool {
	return q.capacity > 0 && len(q.items) >= q.capacity
}

// New creates a bounded point-to-point channel. A capacity below one is
// treated as one.
func New[T any](capacity int) (*Sender[T], *Receiver[T]) {
	if capacity < 1 {
		capacity = 1
	}
	return newPair[T](capacity)
}

// NewUnbounded creates a point-to-point channel whose sends never wait.
func NewUnbounded[T any]() (*Sender[T], *Receiver[T]) {
	return newPair[T](0)
}

func newPair[T any](capacity int) (*Sender[T], *Receiver[T]) {
	q := &queue[T]{
		capacity:  capacity,
		senders:   1,
		receivers: 1,
		changed:   make(chan struct{}),
	}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Sender is the producing end of a point-to-point channel.
// A Sender is safe for concurrent use; use Clone for independent handles.
type Sender[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

// TrySend enqueues v without waiting.
func (s *Sender[T]) TrySend(v T) error {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()

	if s.closed.Load() || q.receivers == 0 {
		return ErrClosed
	}
	if q.full() {
		return ErrFull
	}
	q.items = append(q.items, v)
	q.notifyLocked()
	return nil
}

// Send enqueues v, waiting for room while the channel is full.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	q := s.q
	for {
		q.mu.Lock()
		if s.closed.Load() || q.receivers == 0 {
			q.mu.Unlock()
			return ErrClosed
		}
		if !q.full() {
			q.items = append(q.items, v)
			q.notifyLocked()
			q.mu.Unlock()
			return nil
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Clone returns a new handle on the same channel. The channel stays open for
// receivers until every sender handle is closed.
func (s *Sender[T]) Clone() *Sender[T] {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()

	c := &Sender[T]{q: q}
	if s.closed.Load() {
		c.closed.Store(true)
		return c
	}
	q.senders++
	return c
}

// Close releases this handle. It is idempotent. Values already queued stay
// available to receivers.
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	q.senders--
	if q.senders == 0 {
		q.notifyLocked()
	}
}

// IsClosed reports whether sends through this handle can no longer succeed.
func (s *Sender[T]) IsClosed() bool {
	if s.closed.Load() {
		return true
	}
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	return s.q.receivers == 0
}

// Len returns the number of queued values.
func (s *Sender[T]) Len() int {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	return len(s.q.items)
}

// Receiver is the consuming end of a point-to-point channel. Clones compete
// for values: each value is observed by exactly one receiver.
type Receiver[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

var (
	_ stream.Stream[int] = (*Receiver[int])(nil)
	_ stream.Closer      = (*Receiver[int])(nil)
)

func (r *Receiver[T]) popLocked() T {
	q := r.q
	v := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	q.notifyLocked()
	return v
}

// TryNext returns a queued value without waiting.
func (r *Receiver[T]) TryNext() (T, stream.Poll) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if r.closed.Load() {
		return zero, stream.Done
	}
	if len(q.items) > 0 {
		return r.popLocked(), stream.Ready
	}
	if q.senders == 0 {
		return zero, stream.Done
	}
	return zero, stream.Pending
}

// Next waits for a value. It reports false once every sender is closed and
// the queue is drained, or when ctx is done.
func (r *Receiver[T]) Next(ctx context.Context) (T, bool) {
	q := r.q
	var zero T
	for {
		q.mu.Lock()
		if r.closed.Load() {
			q.mu.Unlock()
			return zero, false
		}
		if len(q.items) > 0 {
			v := r.popLocked()
			q.mu.Unlock()
			return v, true
		}
		if q.senders == 0 {
			q.mu.Unlock()
			return zero, false
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return zero, false
		}
	}
}

// Clone returns a competing receiver handle on the same channel.
func (r *Receiver[T]) Clone() *Receiver[T] {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()

	c := &Receiver[T]{q: q}
	if r.closed.Load() {
		c.closed.Store(true)
		return c
	}
	q.receivers++
	return c
}

// Close releases this handle. Once every receiver is closed, queued values
// are discarded and senders observe ErrClosed.
func (r *Receiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	q.receivers--
	if q.receivers == 0 {
		q.items = nil
		q.notifyLocked()
	}
}

// IsClosed reports whether every sender is closed and nothing is queued.
func (r *Receiver[T]) IsClosed() bool {
	if r.closed.Load() {
		return true
	}
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.senders == 0 && len(r.q.items) == 0
}
