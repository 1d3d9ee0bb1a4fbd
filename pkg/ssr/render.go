package ssr

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/rview/pkg/render"
	"github.com/vango-dev/rview/pkg/telemetry"
	"github.com/vango-dev/rview/pkg/view"
)

// Config configures one server render.
type Config struct {
	// Render configures HTML output.
	Render []render.Option
	// View configures the build.
	View []view.Option
	// Tracer wraps the render in a span.
	Tracer *telemetry.Tracer
}

// Option configures RenderString and RenderPage.
type Option func(*Config)

// WithPretty pretty-prints the output. Pretty output is not hydratable.
func WithPretty(pretty bool) Option {
	return func(c *Config) {
		c.Render = append(c.Render, render.WithPretty(pretty))
	}
}

// WithViewOptions passes opts to view.Build.
func WithViewOptions(opts ...view.Option) Option {
	return func(c *Config) {
		c.View = append(c.View, opts...)
	}
}

// WithTracer records a span per render.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

// Snapshot builds b, captures the markup it has once every ready value is
// applied, and disposes the view.
func Snapshot(ctx context.Context, b *view.Builder, opts ...view.Option) (*render.Node, error) {
	v, err := view.Build[*Node](ctx, NewResources(), b, opts...)
	if err != nil {
		return nil, err
	}
	defer v.Dispose()
	return v.Node().Snapshot(), nil
}

func apply(opts []Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RenderString renders b's initial markup.
func RenderString(ctx context.Context, b *view.Builder, opts ...Option) (out string, err error) {
	c := apply(opts)
	ctx, span := c.Tracer.Start(ctx, "rview.RenderString")
	defer func() { telemetry.End(span, err) }()

	snap, err := Snapshot(ctx, b, c.View...)
	if err != nil {
		return "", err
	}
	return render.New(c.Render...).RenderToString(snap)
}

// RenderPage writes a complete HTML document whose body is b's markup.
func RenderPage(ctx context.Context, w io.Writer, title string, b *view.Builder, opts ...Option) (err error) {
	c := apply(opts)
	ctx, span := c.Tracer.Start(ctx, "rview.RenderPage", attribute.String("rview.title", title))
	defer func() { telemetry.End(span, err) }()

	snap, err := Snapshot(ctx, b, c.View...)
	if err != nil {
		return err
	}
	return render.New(c.Render...).RenderPage(w, render.Page{Title: title, Body: snap})
}
