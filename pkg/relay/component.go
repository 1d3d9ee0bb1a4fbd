package relay

import (
	"context"
	"fmt"

	"github.com/vango-dev/rview/pkg/view"
)

// Component pairs a view with the logic that drives it. The logic runs as a
// task of the built view: it starts once the view is live and its context
// is cancelled by Dispose.
type Component struct {
	Name    string
	Builder *view.Builder
	Logic   func(ctx context.Context) error
}

// NewComponent returns a component without logic.
func NewComponent(name string, b *view.Builder) *Component {
	return &Component{Name: name, Builder: b}
}

// WithLogic sets the component's logic.
func (c *Component) WithLogic(fn func(ctx context.Context) error) *Component {
	c.Logic = fn
	return c
}

// Into returns the builder with the logic attached.
func (c *Component) Into() *view.Builder {
	if c.Logic == nil {
		return c.Builder
	}
	logic := c.Logic
	name := c.Name
	return c.Builder.WithTask(func(ctx context.Context) error {
		if err := logic(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		return nil
	})
}

// Build builds the component against res.
func Build[N any](ctx context.Context, res view.Resources[N], c *Component, opts ...view.Option) (*view.View[N], error) {
	return view.Build(ctx, res, c.Into(), opts...)
}
