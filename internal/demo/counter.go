package demo

import (
	"context"
	"strconv"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/relay"
	"github.com/vango-dev/rview/pkg/view"
)

// Counter is a click counter that never goes below zero.
type Counter struct {
	count  *relay.Proxy[int]
	deltas *relay.Output[int]
}

// NewCounter returns a counter starting at start.
func NewCounter(start int) *Counter {
	if start < 0 {
		start = 0
	}
	return &Counter{
		count:  relay.NewProxy(start),
		deltas: relay.NewOutput[int](),
	}
}

// Count returns the current count.
func (c *Counter) Count() int { return c.count.Get() }

// Component returns the counter's view and the logic that applies clicks.
// It may be called once.
func (c *Counter) Component() *relay.Component {
	deltas := c.deltas.Stream()
	delta := func(d int) channel.Sink[view.Event] {
		return channel.ContraMap(c.deltas.Sink(), func(view.Event) int { return d })
	}

	b := view.Div(
		view.H1(view.TextValue("Counter")),
		view.P(view.Text(relay.Watch(c.count, strconv.Itoa))).
			WithAttr("id", "count").
			WithAttribute("class", relay.Watch(c.count, parity)),
		view.Button(view.TextValue("-")).
			WithAttr("id", "dec").
			WithBoolAttribute("disabled", relay.Watch(c.count, func(n int) bool { return n == 0 })).
			On("click", delta(-1)),
		view.Button(view.TextValue("+")).
			WithAttr("id", "inc").
			On("click", delta(1)),
	).WithAttr("id", "counter")

	return relay.NewComponent("counter", b).WithLogic(func(ctx context.Context) error {
		defer c.deltas.Close()
		for {
			d, ok := deltas.Next(ctx)
			if !ok {
				return nil
			}
			c.count.Modify(func(n *int) {
				if *n+d >= 0 {
					*n += d
				}
			})
		}
	})
}

func parity(n int) string {
	if n%2 == 0 {
		return "even"
	}
	return "odd"
}
