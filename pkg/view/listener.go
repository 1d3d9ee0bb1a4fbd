package view

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/telemetry"
)

// listener tracks one backend registration. It can be stopped before the
// backend has returned the remove func, in which case attach removes it.
type listener struct {
	mu         sync.Mutex
	remove     func()
	registered bool
	stopped    bool
	reason     string
	metrics    *telemetry.Metrics
}

func (l *listener) attach(remove func()) {
	l.mu.Lock()
	l.remove = remove
	l.registered = true
	stopped := l.stopped
	reason := l.reason
	l.mu.Unlock()

	l.metrics.ListenerAdded()
	if stopped {
		remove()
		l.metrics.ListenerStopped(reason)
	}
}

func (l *listener) stop(reason string) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.reason = reason
	remove := l.remove
	registered := l.registered
	l.mu.Unlock()

	if registered {
		remove()
		l.metrics.ListenerStopped(reason)
	}
}

func (l *listener) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// listen registers d on the backend. Events are offered to the sink without
// waiting; a closed sink removes the listener quietly and a full one is
// reported as an error before the listener is removed.
func (v *View[N]) listen(d eventDecl) error {
	l := &listener{metrics: v.metrics}
	log := v.log.With(slog.String("event", d.name), slog.String("scope", d.scope.String()))

	fn := func(e Event) {
		err := d.sink.TrySend(e)
		switch {
		case err == nil:
		case errors.Is(err, channel.ErrClosed):
			log.Debug("event sink closed, removing listener")
			l.stop(telemetry.StopClosed)
		case errors.Is(err, channel.ErrFull):
			log.Error("event sink full, removing listener", slog.String("reason", telemetry.StopFull))
			l.stop(telemetry.StopFull)
		default:
			log.Error("event forwarding failed", slog.Any("error", err))
		}
	}

	remove, err := v.res.AddListener(v.node, d.scope, d.name, fn)
	if err != nil {
		return err
	}
	l.attach(remove)

	v.mu.Lock()
	v.listeners = append(v.listeners, l)
	v.mu.Unlock()
	return nil
}
