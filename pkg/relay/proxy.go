package relay

import (
	"sync"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/stream"
)

// DefaultProxyCapacity is how many unread updates a proxy keeps per
// watcher before dropping the oldest.
const DefaultProxyCapacity = 16

// Proxy holds a model value and publishes every change to any number of
// watchers, so one update can drive several parts of a view.
type Proxy[T any] struct {
	mu    sync.RWMutex
	value T
	eq    func(a, b T) bool
	ch    *channel.Channel[T]
	tx    *channel.BroadcastSender[T]
}

// NewProxy returns a proxy for comparable values. Setting an equal value
// publishes nothing.
func NewProxy[T comparable](v T) *Proxy[T] {
	return NewProxyFunc(v, func(a, b T) bool { return a == b })
}

// NewProxyFunc returns a proxy that compares values with eq. A nil eq
// treats every Set as a change.
func NewProxyFunc[T any](v T, eq func(a, b T) bool) *Proxy[T] {
	ch := channel.NewBroadcast[T](DefaultProxyCapacity)
	ch.SetOverflow(true)
	return &Proxy[T]{value: v, eq: eq, ch: ch, tx: ch.Sender()}
}

// Get returns the current value.
func (p *Proxy[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set replaces the value and reports whether it changed.
func (p *Proxy[T]) Set(v T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.eq != nil && p.eq(p.value, v) {
		return false
	}
	p.value = v
	p.publishLocked()
	return true
}

// Modify edits the value in place and publishes the result.
func (p *Proxy[T]) Modify(fn func(v *T)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.value)
	p.publishLocked()
}

func (p *Proxy[T]) publishLocked() {
	// Overflowing channels never report ErrFull; ErrClosed means the proxy
	// was closed and nobody is watching.
	_ = p.tx.TrySend(p.value)
}

// Stream yields the current value and then every later one.
func (p *Proxy[T]) Stream() stream.Stream[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return stream.NowAndLater[T](p.value, p.ch.Receiver())
}

// Close ends every watcher's stream.
func (p *Proxy[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tx.Close()
	p.ch.Close()
}

// Watch maps a proxy's values, for example to a text or attribute value.
func Watch[T, U any](p *Proxy[T], f func(T) U) stream.Stream[U] {
	return stream.Map(p.Stream(), f)
}
