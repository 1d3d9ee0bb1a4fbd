package view

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/patch"
	"github.com/vango-dev/rview/pkg/stream"
)

// Kind is the node type of a Builder.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, etc.
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Scope is the target an event listener is registered on.
type Scope uint8

const (
	ScopeSelf Scope = iota
	ScopeWindow
	ScopeDocument
)

// String returns the string representation of the Scope.
func (s Scope) String() string {
	switch s {
	case ScopeSelf:
		return "self"
	case ScopeWindow:
		return "window"
	case ScopeDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Event is a platform event handed to an event sink. Raw holds whatever the
// backend fired; the engine never inspects it.
type Event struct {
	Type  string
	Scope Scope
	Raw   any
}

type (
	// AttrPatch edits string attributes.
	AttrPatch = patch.HashPatch[string, string]
	// BoolPatch edits boolean attributes. Inserting false removes the
	// attribute.
	BoolPatch = patch.HashPatch[string, bool]
	// StylePatch edits inline style properties.
	StylePatch = patch.HashPatch[string, string]
	// ChildPatch edits a node's child list.
	ChildPatch = patch.ListPatch[*Builder]
)

type eventDecl struct {
	scope Scope
	name  string
	sink  channel.Sink[Event]
}

// Builder is an inert description of one node and the streams that change
// it over time. Building one touches no backend; it is consumed by the first
// Build or Hydrate that receives it.
//
// Methods record declarations in order and return the receiver so calls can
// be chained. Declaring the same attribute twice keeps both declarations;
// the one applied last wins.
type Builder struct {
	kind Kind
	tag  string
	ns   string

	texts     []stream.Stream[string]
	attrs     []stream.Stream[AttrPatch]
	bools     []stream.Stream[BoolPatch]
	styles    []stream.Stream[StylePatch]
	events    []eventDecl
	children  []stream.Stream[ChildPatch]
	tasks     []func(ctx context.Context) error
	postBuild []func(node any) error
	captures  []channel.Sink[any]

	consumed atomic.Bool
}

// Element returns a builder for an element with the given tag.
func Element(tag string) *Builder {
	return &Builder{kind: KindElement, tag: tag}
}

// ElementNS returns a builder for a namespaced element, such as SVG.
func ElementNS(tag, namespace string) *Builder {
	return &Builder{kind: KindElement, tag: tag, ns: namespace}
}

// Text returns a builder for a text node whose content follows st.
func Text(st stream.Stream[string]) *Builder {
	return &Builder{kind: KindText, texts: []stream.Stream[string]{st}}
}

// TextValue returns a builder for a text node with fixed content.
func TextValue(s string) *Builder {
	return Text(stream.Now(s))
}

// Kind returns the node type.
func (b *Builder) Kind() Kind { return b.kind }

// Tag returns the element tag, or "" for text builders.
func (b *Builder) Tag() string { return b.tag }

// Namespace returns the element namespace, or "".
func (b *Builder) Namespace() string { return b.ns }

// Consumed reports whether the builder has been built.
func (b *Builder) Consumed() bool { return b.consumed.Load() }

// WithNamespace sets the element namespace.
func (b *Builder) WithNamespace(ns string) *Builder {
	b.ns = ns
	return b
}

// WithText declares text content. On a text builder every value replaces
// the node's text; on an element it appends a text child.
func (b *Builder) WithText(st stream.Stream[string]) *Builder {
	if b.kind == KindText {
		b.texts = append(b.texts, st)
		return b
	}
	return b.WithChild(Text(st))
}

// WithTextValue is WithText with fixed content.
func (b *Builder) WithTextValue(s string) *Builder {
	return b.WithText(stream.Now(s))
}

// WithAttribute declares an attribute whose value follows st.
func (b *Builder) WithAttribute(name string, st stream.Stream[string]) *Builder {
	return b.WithAttributeStream(stream.Map(st, func(v string) AttrPatch {
		return patch.Put(name, v)
	}))
}

// WithAttr declares an attribute with a fixed value.
func (b *Builder) WithAttr(name, value string) *Builder {
	return b.WithAttribute(name, stream.Now(value))
}

// WithAttributeStream declares a stream of attribute edits.
func (b *Builder) WithAttributeStream(st stream.Stream[AttrPatch]) *Builder {
	b.attrs = append(b.attrs, st)
	return b
}

// WithBoolAttribute declares a boolean attribute that is present while st's
// latest value is true.
func (b *Builder) WithBoolAttribute(name string, st stream.Stream[bool]) *Builder {
	return b.WithBoolAttributeStream(stream.Map(st, func(on bool) BoolPatch {
		return patch.Put(name, on)
	}))
}

// WithBoolAttr declares a boolean attribute with a fixed presence.
func (b *Builder) WithBoolAttr(name string, on bool) *Builder {
	return b.WithBoolAttribute(name, stream.Now(on))
}

// WithBoolAttributeStream declares a stream of boolean attribute edits.
func (b *Builder) WithBoolAttributeStream(st stream.Stream[BoolPatch]) *Builder {
	b.bools = append(b.bools, st)
	return b
}

// WithStyle declares one inline style property whose value follows st.
func (b *Builder) WithStyle(property string, st stream.Stream[string]) *Builder {
	return b.WithStyleStream(stream.Map(st, func(v string) StylePatch {
		return patch.Put(property, v)
	}))
}

// WithStyleValue declares a fixed inline style property.
func (b *Builder) WithStyleValue(property, value string) *Builder {
	return b.WithStyle(property, stream.Now(value))
}

// WithStyleString declares inline styles from strings such as
// "color: red; display: none". Each declaration sets one property.
func (b *Builder) WithStyleString(st stream.Stream[string]) *Builder {
	return b.WithStyleStream(stream.FlatMap(st, ParseStyle))
}

// WithStyleStream declares a stream of style edits.
func (b *Builder) WithStyleStream(st stream.Stream[StylePatch]) *Builder {
	b.styles = append(b.styles, st)
	return b
}

// WithEvent forwards events named name on scope into sink.
func (b *Builder) WithEvent(scope Scope, name string, sink channel.Sink[Event]) *Builder {
	b.events = append(b.events, eventDecl{scope: scope, name: name, sink: sink})
	return b
}

// On forwards events fired on the node itself.
func (b *Builder) On(name string, sink channel.Sink[Event]) *Builder {
	return b.WithEvent(ScopeSelf, name, sink)
}

// WithChildStream declares a stream of edits to the child list. Every child
// stream of a builder edits the same list.
func (b *Builder) WithChildStream(st stream.Stream[ChildPatch]) *Builder {
	b.children = append(b.children, st)
	return b
}

// WithChild appends one child.
func (b *Builder) WithChild(child *Builder) *Builder {
	return b.WithChildStream(stream.Now(patch.Push(child)))
}

// Append appends children in order.
func (b *Builder) Append(children ...*Builder) *Builder {
	if len(children) == 0 {
		return b
	}
	pushes := make([]ChildPatch, 0, len(children))
	for _, c := range children {
		pushes = append(pushes, patch.Push(c))
	}
	return b.WithChildStream(stream.Iter(pushes...))
}

// WithTask runs fn for as long as the built view is live. Its context is
// cancelled when the view is disposed.
func (b *Builder) WithTask(fn func(ctx context.Context) error) *Builder {
	b.tasks = append(b.tasks, fn)
	return b
}

// WithPostBuild runs fn with the backend node once the node and its initial
// children exist. An error fails the build.
func (b *Builder) WithPostBuild(fn func(node any) error) *Builder {
	b.postBuild = append(b.postBuild, fn)
	return b
}

// WithCaptureView sends the built *View to sink.
func (b *Builder) WithCaptureView(sink channel.Sink[any]) *Builder {
	b.captures = append(b.captures, sink)
	return b
}

// ParseStyle splits an inline style string into property inserts.
// Malformed declarations are skipped.
func ParseStyle(s string) []StylePatch {
	var out []StylePatch
	for _, decl := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = append(out, patch.Put(prop, value))
	}
	return out
}
