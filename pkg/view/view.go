package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/rview/pkg/telemetry"
)

// State is the lifecycle state of a View.
type State uint8

const (
	StateBuilding State = iota
	StateLive
	StateDisposed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "Building"
	case StateLive:
		return "Live"
	case StateDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// View is a materialized builder. It owns its backend node, one goroutine
// per live declaration, its event listeners and its child views. Dispose
// releases all of them.
type View[N any] struct {
	id       string
	node     N
	kind     Kind
	tag      string
	hydrated bool

	res     Resources[N]
	cfg     *config
	log     *slog.Logger
	metrics *telemetry.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	// mu guards state, children and listeners. Child declarations share
	// the child list.
	mu        sync.Mutex
	state     State
	children  []*View[N]
	listeners []*listener

	disposeOnce sync.Once
	err         error
}

func newView[N any](parent context.Context, res Resources[N], cfg *config, p *plan, node N) *View[N] {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	return &View[N]{
		id:      id,
		node:    node,
		kind:    p.kind,
		tag:     p.tag,
		res:     res,
		cfg:     cfg,
		metrics: cfg.metrics,
		log: cfg.logger.With(
			slog.String("view_id", id),
			slog.String("backend", res.Backend()),
			slog.String("tag", p.label(-1)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the view's unique identifier.
func (v *View[N]) ID() string { return v.id }

// Node returns the backend node.
func (v *View[N]) Node() N { return v.node }

// Kind returns the node type.
func (v *View[N]) Kind() Kind { return v.kind }

// Tag returns the element tag, or "" for text views.
func (v *View[N]) Tag() string { return v.tag }

// Hydrated reports whether the node was found rather than created.
func (v *View[N]) Hydrated() bool { return v.hydrated }

// State returns the lifecycle state.
func (v *View[N]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Children returns a snapshot of the child views in order.
func (v *View[N]) Children() []*View[N] {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*View[N], len(v.children))
	copy(out, v.children)
	return out
}

// ListenerCount returns the number of listeners the view still has
// registered.
func (v *View[N]) ListenerCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, l := range v.listeners {
		if !l.isStopped() {
			n++
		}
	}
	return n
}

// Context returns a context that is cancelled when the view is disposed.
func (v *View[N]) Context() context.Context { return v.ctx }

// Dispose cancels every task, removes every listener and disposes the
// children depth first. It waits for the view's tasks to return and reports
// the first task error. Dispose is idempotent.
func (v *View[N]) Dispose() error {
	v.disposeOnce.Do(func() {
		v.mu.Lock()
		wasLive := v.state == StateLive
		v.state = StateDisposed
		listeners := v.listeners
		v.listeners = nil
		v.mu.Unlock()

		v.cancel()
		for _, l := range listeners {
			l.stop(telemetry.StopDisposed)
		}
		v.err = v.group.Wait()

		v.mu.Lock()
		children := v.children
		v.children = nil
		v.mu.Unlock()
		for _, c := range children {
			if err := c.Dispose(); err != nil {
				v.log.Debug("child task failed", slog.String("child_id", c.id), slog.Any("error", err))
			}
		}

		if wasLive {
			v.metrics.ViewDisposed()
		}
	})
	return v.err
}

// spawn runs fn in the view's task group. Cancellation is not an error.
func (v *View[N]) spawn(name string, fn func(ctx context.Context) error) {
	v.group.Go(func() error {
		err := fn(v.ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		v.log.Error("view task failed", slog.String("task", name), slog.Any("error", err))
		return err
	})
}

// Spawn runs fn as one of the view's tasks. fn's context is cancelled by
// Dispose, which waits for fn to return. It returns ErrDisposed once Dispose
// has started.
func (v *View[N]) Spawn(fn func(ctx context.Context) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateDisposed {
		return ErrDisposed
	}
	v.spawn("task", fn)
	return nil
}
