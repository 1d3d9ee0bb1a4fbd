package channel

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/rview/pkg/stream"
)

// hub is the shared state of a broadcast channel.
//
// Messages are kept in buf until every active tap has read them. head is the
// sequence number of buf[0]; a tap's pos is the sequence number of the next
// message it will read.
type hub[T any] struct {
	mu       sync.Mutex
	buf      []T
	head     uint64
	capacity int
	overflow bool

	senders  int
	taps     map[*tap]struct{}
	inactive int

	changed chan struct{}
}

type tap struct {
	pos uint64
}

func (h *hub[T]) notifyLocked() {
	close(h.changed)
	h.changed = make(chan struct{})
}

func (h *hub[T]) tail() uint64 {
	return h.head + uint64(len(h.buf))
}

func (h *hub[T]) receiversLocked() int {
	return len(h.taps) + h.inactive
}

// trimLocked drops messages every active tap has already read.
func (h *hub[T]) trimLocked() {
	min := h.tail()
	for t := range h.taps {
		if t.pos < min {
			min = t.pos
		}
	}
	n := int(min - h.head)
	if n <= 0 {
		return
	}
	var zero T
	for i := 0; i < n; i++ {
		h.buf[i] = zero
	}
	h.buf = h.buf[n:]
	h.head = min
}

// pushLocked appends v. It reports ErrFull when there is no room and the
// channel does not overflow.
func (h *hub[T]) pushLocked(v T) error {
	if len(h.taps) == 0 {
		// Only reserved taps: nobody is listening yet.
		return nil
	}
	if len(h.buf) >= h.capacity {
		if !h.overflow {
			return ErrFull
		}
		var zero T
		h.buf[0] = zero
		h.buf = h.buf[1:]
		h.head++
		for t := range h.taps {
			if t.pos < h.head {
				t.pos = h.head
			}
		}
	}
	h.buf = append(h.buf, v)
	h.notifyLocked()
	return nil
}

func (h *hub[T]) newTapLocked() *tap {
	t := &tap{pos: h.tail()}
	h.taps[t] = struct{}{}
	return t
}

func newHub[T any](capacity int) *hub[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &hub[T]{
		capacity: capacity,
		taps:     make(map[*tap]struct{}),
		changed:  make(chan struct{}),
	}
}

// Broadcast creates a broadcast channel and returns one sender and one
// active receiver.
func Broadcast[T any](capacity int) (*BroadcastSender[T], *BroadcastReceiver[T]) {
	h := newHub[T](capacity)
	h.senders = 1
	r := &BroadcastReceiver[T]{h: h, t: h.newTapLocked()}
	return &BroadcastSender[T]{h: h}, r
}

// Channel pairs a broadcast sender with a reserved (inactive) receiver so
// that the channel stays open while new taps are handed out.
type Channel[T any] struct {
	sender   *BroadcastSender[T]
	reserved *InactiveReceiver[T]
}

// NewBroadcast creates a broadcast channel handle.
func NewBroadcast[T any](capacity int) *Channel[T] {
	h := newHub[T](capacity)
	h.senders = 1
	h.inactive = 1
	return &Channel[T]{
		sender:   &BroadcastSender[T]{h: h},
		reserved: &InactiveReceiver[T]{h: h},
	}
}

// SetOverflow makes full sends drop the oldest message instead of failing.
func (c *Channel[T]) SetOverflow(overflow bool) {
	c.sender.SetOverflow(overflow)
}

// Sender returns a new sender handle.
func (c *Channel[T]) Sender() *BroadcastSender[T] {
	return c.sender.Clone()
}

// Receiver returns a new active tap that sees every message sent from now on.
func (c *Channel[T]) Receiver() *BroadcastReceiver[T] {
	return c.reserved.ActivateCloned()
}

// Inactive returns a new reserved tap. It keeps the channel open but buffers
// nothing until it is activated.
func (c *Channel[T]) Inactive() *InactiveReceiver[T] {
	return c.reserved.Clone()
}

// Close releases the channel's own sender and reserved receiver.
func (c *Channel[T]) Close() {
	c.sender.Close()
	c.reserved.Close()
}

// BroadcastSender sends every message to every active tap.
type BroadcastSender[T any] struct {
	h      *hub[T]
	closed atomic.Bool
}

// SetOverflow makes full sends drop the oldest message instead of failing.
func (s *BroadcastSender[T]) SetOverflow(overflow bool) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.overflow = overflow
}

// TrySend broadcasts v without waiting. When every remaining tap is
// inactive, v is dropped and nil is returned: reserved taps see only what
// is sent after they are activated. ErrClosed means no tap of either kind
// is left.
func (s *BroadcastSender[T]) TrySend(v T) error {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed.Load() || h.receiversLocked() == 0 {
		return ErrClosed
	}
	return h.pushLocked(v)
}

// Send broadcasts v, waiting while the slowest tap has a full buffer. Like
// TrySend it drops v without waiting when only inactive taps remain.
func (s *BroadcastSender[T]) Send(ctx context.Context, v T) error {
	h := s.h
	for {
		h.mu.Lock()
		if s.closed.Load() || h.receiversLocked() == 0 {
			h.mu.Unlock()
			return ErrClosed
		}
		err := h.pushLocked(v)
		if err != ErrFull {
			h.mu.Unlock()
			return err
		}
		wait := h.changed
		h.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Clone returns a new sender handle.
func (s *BroadcastSender[T]) Clone() *BroadcastSender[T] {
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &BroadcastSender[T]{h: h}
	if s.closed.Load() {
		c.closed.Store(true)
		return c
	}
	h.senders++
	return c
}

// Close releases this handle.
func (s *BroadcastSender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	h := s.h
	h.mu.Lock()
	defer h.mu.Unlock()
	h.senders--
	if h.senders == 0 {
		h.notifyLocked()
	}
}

// IsClosed reports whether sends can no longer succeed.
func (s *BroadcastSender[T]) IsClosed() bool {
	if s.closed.Load() {
		return true
	}
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return s.h.receiversLocked() == 0
}

// Len returns the number of messages the slowest tap has not read.
func (s *BroadcastSender[T]) Len() int {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return len(s.h.buf)
}

// BroadcastReceiver is an active tap on a broadcast channel.
type BroadcastReceiver[T any] struct {
	h      *hub[T]
	t      *tap
	closed atomic.Bool
}

var (
	_ stream.Stream[int] = (*BroadcastReceiver[int])(nil)
	_ stream.Closer      = (*BroadcastReceiver[int])(nil)
)

func (r *BroadcastReceiver[T]) readLocked() (T, bool) {
	h := r.h
	if r.t.pos >= h.tail() {
		var zero T
		return zero, false
	}
	v := h.buf[r.t.pos-h.head]
	r.t.pos++
	h.trimLocked()
	h.notifyLocked()
	return v, true
}

// TryNext returns the next message without waiting.
func (r *BroadcastReceiver[T]) TryNext() (T, stream.Poll) {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero T
	if r.closed.Load() {
		return zero, stream.Done
	}
	if v, ok := r.readLocked(); ok {
		return v, stream.Ready
	}
	if h.senders == 0 {
		return zero, stream.Done
	}
	return zero, stream.Pending
}

// Next waits for the next message.
func (r *BroadcastReceiver[T]) Next(ctx context.Context) (T, bool) {
	h := r.h
	var zero T
	for {
		h.mu.Lock()
		if r.closed.Load() {
			h.mu.Unlock()
			return zero, false
		}
		if v, ok := r.readLocked(); ok {
			h.mu.Unlock()
			return v, true
		}
		if h.senders == 0 {
			h.mu.Unlock()
			return zero, false
		}
		wait := h.changed
		h.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return zero, false
		}
	}
}

// Clone returns a tap positioned at the same message as r.
func (r *BroadcastReceiver[T]) Clone() *BroadcastReceiver[T] {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if r.closed.Load() {
		c := &BroadcastReceiver[T]{h: h, t: &tap{}}
		c.closed.Store(true)
		return c
	}
	t := &tap{pos: r.t.pos}
	h.taps[t] = struct{}{}
	return &BroadcastReceiver[T]{h: h, t: t}
}

// Deactivate turns this tap into a reserved one.
func (r *BroadcastReceiver[T]) Deactivate() *InactiveReceiver[T] {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if !r.closed.CompareAndSwap(false, true) {
		c := &InactiveReceiver[T]{h: h}
		c.closed.Store(true)
		return c
	}
	delete(h.taps, r.t)
	h.inactive++
	h.trimLocked()
	h.notifyLocked()
	return &InactiveReceiver[T]{h: h}
}

// Close releases this tap.
func (r *BroadcastReceiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.taps, r.t)
	h.trimLocked()
	h.notifyLocked()
}

// InactiveReceiver reserves a slot on a broadcast channel without receiving.
type InactiveReceiver[T any] struct {
	h      *hub[T]
	closed atomic.Bool
}

// Activate consumes the reservation and returns an active tap.
func (r *InactiveReceiver[T]) Activate() *BroadcastReceiver[T] {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if !r.closed.CompareAndSwap(false, true) {
		c := &BroadcastReceiver[T]{h: h, t: &tap{}}
		c.closed.Store(true)
		return c
	}
	h.inactive--
	return &BroadcastReceiver[T]{h: h, t: h.newTapLocked()}
}

// ActivateCloned returns a new active tap and keeps this reservation.
func (r *InactiveReceiver[T]) ActivateCloned() *BroadcastReceiver[T] {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if r.closed.Load() {
		c := &BroadcastReceiver[T]{h: h, t: &tap{}}
		c.closed.Store(true)
		return c
	}
	return &BroadcastReceiver[T]{h: h, t: h.newTapLocked()}
}

// Clone returns another reservation.
func (r *InactiveReceiver[T]) Clone() *InactiveReceiver[T] {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &InactiveReceiver[T]{h: h}
	if r.closed.Load() {
		c.closed.Store(true)
		return c
	}
	h.inactive++
	return c
}

// Close releases the reservation.
func (r *InactiveReceiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inactive--
	h.notifyLocked()
}
