// Package rview provides the public API for building reactive views.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/rview"
//
// Usage:
//
//	count := rview.NewProxy(0)
//	b := rview.Div(
//	    rview.Text(rview.Watch(count, strconv.Itoa)),
//	)
//	html, err := rview.RenderString(ctx, b)
package rview

import (
	"context"
	"io"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/dom"
	"github.com/vango-dev/rview/pkg/relay"
	"github.com/vango-dev/rview/pkg/ssr"
	"github.com/vango-dev/rview/pkg/stream"
	"github.com/vango-dev/rview/pkg/view"
)

// =============================================================================
// Builders (re-export from pkg/view)
// =============================================================================

// Builder describes one node and the streams that change it.
type Builder = view.Builder

// Event is a platform event delivered to an event sink.
type Event = view.Event

// ChildPatch edits a node's child list.
type ChildPatch = view.ChildPatch

// Option configures Build and Hydrate.
type Option = view.Option

var (
	// Element returns a builder for an element with the given tag.
	Element = view.Element

	// Text returns a builder for a text node driven by st.
	Text = view.Text

	// TextValue returns a builder for a text node with a fixed value.
	TextValue = view.TextValue

	Div    = view.Div
	Span   = view.Span
	P      = view.P
	Ul     = view.Ul
	Li     = view.Li
	Button = view.Button
	Input  = view.Input

	WithLogger  = view.WithLogger
	WithMetrics = view.WithMetrics
	WithTracer  = view.WithTracer
)

// =============================================================================
// Views
// =============================================================================

// View is a live view on the document backend.
type View = view.View[*dom.Node]

// Document is the in-memory document backend.
type Document = dom.Document

// NewDocument returns an empty document.
func NewDocument() *Document { return dom.NewDocument() }

// ParseDocument parses HTML into a document that views can hydrate.
func ParseDocument(r io.Reader) (*Document, error) { return dom.Parse(r) }

// Build materializes b as a detached subtree of doc.
func Build(ctx context.Context, doc *Document, b *Builder, opts ...Option) (*View, error) {
	return view.Build[*dom.Node](ctx, doc, b, opts...)
}

// Hydrate adopts the nodes of doc that b describes.
func Hydrate(ctx context.Context, doc *Document, b *Builder, opts ...Option) (*View, error) {
	return view.Hydrate[*dom.Node](ctx, doc, b, opts...)
}

// HydrateOrBuild hydrates b and falls back to a fresh build when the
// document does not match.
func HydrateOrBuild(ctx context.Context, doc *Document, b *Builder, opts ...Option) (*View, error) {
	return view.HydrateOrBuild[*dom.Node](ctx, doc, b, opts...)
}

// =============================================================================
// Server rendering (re-export from pkg/ssr)
// =============================================================================

// RenderString renders b's initial markup.
func RenderString(ctx context.Context, b *Builder, opts ...ssr.Option) (string, error) {
	return ssr.RenderString(ctx, b, opts...)
}

// RenderPage writes a complete HTML document whose body is b's markup.
func RenderPage(ctx context.Context, w io.Writer, title string, b *Builder, opts ...ssr.Option) error {
	return ssr.RenderPage(ctx, w, title, b, opts...)
}

// =============================================================================
// Model plumbing (re-export from pkg/relay and pkg/stream)
// =============================================================================

// NewProxy returns a proxy for comparable values.
func NewProxy[T comparable](v T) *relay.Proxy[T] { return relay.NewProxy(v) }

// Watch maps a proxy's values, for example to a text or attribute value.
func Watch[T, U any](p *relay.Proxy[T], f func(T) U) stream.Stream[U] {
	return relay.Watch(p, f)
}

// NewOutput returns an output for events of type T.
func NewOutput[T any]() *relay.Output[T] { return relay.NewOutput[T]() }

// EventSink adapts a function to an event sink.
func EventSink(f func(Event) error) channel.Sink[Event] {
	return channel.SinkFunc[Event](f)
}

// Component pairs a view with the logic that drives it.
type Component = relay.Component

// NewComponent returns a component without logic.
var NewComponent = relay.NewComponent
