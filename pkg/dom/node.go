package dom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/rview/pkg/render"
)

// NodeType distinguishes elements from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is an element or text node of a Document. Its state is guarded by the
// document's lock; read it through the accessor methods.
type Node struct {
	doc *Document
	typ NodeType

	tag  string
	ns   string
	text string

	attrs    []attr
	styles   []style
	parent   *Node
	children []*Node

	listeners map[string][]*entry
}

type attr struct {
	name  string
	value string
}

type style struct {
	property string
	value    string
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the lower-case tag name, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Namespace returns the element namespace; "" means HTML.
func (n *Node) Namespace() string { return n.ns }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.parent
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Attribute returns the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.attrLocked(name)
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// Style returns the named inline style property.
func (n *Node) Style(property string) (string, bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for _, s := range n.styles {
		if s.property == property {
			return s.value, true
		}
	}
	return "", false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var sb strings.Builder
	n.textLocked(&sb)
	return sb.String()
}

// HTML renders n and its subtree.
func (n *Node) HTML() string {
	n.doc.mu.Lock()
	snap := n.snapshotLocked()
	n.doc.mu.Unlock()
	return renderSnapshot(snap)
}

// InnerHTML renders n's children.
func (n *Node) InnerHTML() string {
	n.doc.mu.Lock()
	snaps := make([]*render.Node, len(n.children))
	for i, c := range n.children {
		snaps[i] = c.snapshotLocked()
	}
	n.doc.mu.Unlock()

	var sb strings.Builder
	for _, s := range snaps {
		sb.WriteString(renderSnapshot(s))
	}
	return sb.String()
}

// String describes the node for logs and error messages.
func (n *Node) String() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.describeLocked()
}

func (n *Node) attrLocked(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

func (n *Node) setAttrLocked(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attr{name: name, value: value})
}

func (n *Node) removeAttrLocked(name string) {
	for i, a := range n.attrs {
		if a.name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) setStyleLocked(property, value string) {
	for i := range n.styles {
		if n.styles[i].property == property {
			n.styles[i].value = value
			return
		}
	}
	n.styles = append(n.styles, style{property: property, value: value})
}

func (n *Node) removeStyleLocked(property string) {
	for i, s := range n.styles {
		if s.property == property {
			n.styles = append(n.styles[:i], n.styles[i+1:]...)
			return
		}
	}
}

func (n *Node) indexLocked(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detachLocked() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexLocked(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *Node) containsLocked(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

func (n *Node) textLocked(sb *strings.Builder) {
	if n.typ == TextNode {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.textLocked(sb)
	}
}

// isBlank reports whether n is a text node holding only whitespace.
// Hydration does not count those as children.
func (n *Node) isBlank() bool {
	return n.typ == TextNode && strings.TrimSpace(n.text) == ""
}

func (n *Node) describeLocked() string {
	if n.typ == TextNode {
		t := strings.TrimSpace(n.text)
		if len(t) > 20 {
			t = t[:20] + "..."
		}
		return fmt.Sprintf("text %q", t)
	}
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(n.tag)
	if id, ok := n.attrLocked("id"); ok {
		fmt.Fprintf(&sb, " id=%q", id)
	}
	if class, ok := n.attrLocked("class"); ok {
		fmt.Fprintf(&sb, " class=%q", class)
	}
	sb.WriteString(">")
	return sb.String()
}

func (n *Node) snapshotLocked() *render.Node {
	if n.typ == TextNode {
		return render.TextNode(n.text)
	}
	s := &render.Node{Tag: n.tag, Namespace: n.ns}
	for _, a := range n.attrs {
		s.Attrs = append(s.Attrs, render.Attr{Name: a.name, Value: a.value})
	}
	for _, st := range n.styles {
		s.Styles = append(s.Styles, render.Style{Property: st.property, Value: st.value})
	}
	for _, c := range n.children {
		s.Children = append(s.Children, c.snapshotLocked())
	}
	return s
}

var renderer = render.New()

func renderSnapshot(s *render.Node) string {
	out, err := renderer.RenderToString(s)
	if err != nil {
		// Writing to a buffer does not fail
		return ""
	}
	return out
}
