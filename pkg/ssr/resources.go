package ssr

import (
	"errors"

	"github.com/vango-dev/rview/pkg/render"
	"github.com/vango-dev/rview/pkg/view"
)

var (
	// ErrNotText is returned by SetText on an element.
	ErrNotText = errors.New("ssr: not a text node")
	// ErrNotElement is returned for element edits on a text node.
	ErrNotElement = errors.New("ssr: not an element")
	// ErrNotChild is returned when a node is not a child of the given parent.
	ErrNotChild = errors.New("ssr: not a child of parent")
)

// Resources builds views into server-side nodes. Window and document
// listeners are kept on two pseudo nodes so tests can fire them.
type Resources struct {
	window   *Node
	document *Node
}

var _ view.Resources[*Node] = (*Resources)(nil)

// NewResources returns an SSR backend.
func NewResources() *Resources {
	return &Resources{window: &Node{tag: "#window"}, document: &Node{tag: "#document"}}
}

func (r *Resources) Backend() string { return "ssr" }

func (r *Resources) CreateElement(tag, namespace string) (*Node, error) {
	if tag == "" {
		return nil, errors.New("ssr: empty tag name")
	}
	return &Node{tag: tag, ns: namespace}, nil
}

func (r *Resources) CreateText(text string) (*Node, error) {
	return &Node{text: true, value: text}, nil
}

func (r *Resources) SetText(node *Node, text string) error {
	if !node.text {
		return ErrNotText
	}
	node.mu.Lock()
	defer node.mu.Unlock()
	node.value = text
	return nil
}

func (r *Resources) SetAttribute(node *Node, name, value string) error {
	return edit(node, func() { node.attrs = setAttr(node.attrs, name, value, false) })
}

func (r *Resources) RemoveAttribute(node *Node, name string) error {
	return edit(node, func() { node.attrs = removeAttr(node.attrs, name) })
}

func (r *Resources) SetBoolAttribute(node *Node, name string, on bool) error {
	return edit(node, func() {
		if on {
			node.attrs = setAttr(node.attrs, name, "", true)
		} else {
			node.attrs = removeAttr(node.attrs, name)
		}
	})
}

func (r *Resources) SetStyle(node *Node, property, value string) error {
	return edit(node, func() {
		for i := range node.styles {
			if node.styles[i].Property == property {
				node.styles[i].Value = value
				return
			}
		}
		node.styles = append(node.styles, render.Style{Property: property, Value: value})
	})
}

func (r *Resources) RemoveStyle(node *Node, property string) error {
	return edit(node, func() {
		for i, s := range node.styles {
			if s.Property == property {
				node.styles = append(node.styles[:i], node.styles[i+1:]...)
				return
			}
		}
	})
}

// InsertChild inserts child before ref, or appends when ref is nil. child
// must not already be attached elsewhere.
func (r *Resources) InsertChild(parent, child, ref *Node) error {
	return edit(parent, func() {
		if ref == nil {
			parent.children = append(parent.children, child)
			return
		}
		for i, c := range parent.children {
			if c == ref {
				parent.children = append(parent.children, nil)
				copy(parent.children[i+1:], parent.children[i:])
				parent.children[i] = child
				return
			}
		}
		// ref vanished; keep the child rather than losing it
		parent.children = append(parent.children, child)
	})
}

func (r *Resources) RemoveChild(parent, child *Node) error {
	if parent.text {
		return ErrNotElement
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return nil
		}
	}
	return ErrNotChild
}

func (r *Resources) AddListener(node *Node, scope view.Scope, name string, fn func(view.Event)) (func(), error) {
	switch scope {
	case view.ScopeWindow:
		node = r.window
	case view.ScopeDocument:
		node = r.document
	}
	return node.addListener(name, fn), nil
}

// FireWindow dispatches an event to window listeners.
func (r *Resources) FireWindow(typ string, raw any) int {
	return r.window.dispatch(view.ScopeWindow, typ, raw)
}

// FireDocument dispatches an event to document listeners.
func (r *Resources) FireDocument(typ string, raw any) int {
	return r.document.dispatch(view.ScopeDocument, typ, raw)
}

func edit(node *Node, fn func()) error {
	if node.text {
		return ErrNotElement
	}
	node.mu.Lock()
	defer node.mu.Unlock()
	fn()
	return nil
}

func setAttr(attrs []render.Attr, name, value string, isBool bool) []render.Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			attrs[i].Bool = isBool
			return attrs
		}
	}
	return append(attrs, render.Attr{Name: name, Value: value, Bool: isBool})
}

func removeAttr(attrs []render.Attr, name string) []render.Attr {
	for i, a := range attrs {
		if a.Name == name {
			return append(attrs[:i], attrs[i+1:]...)
		}
	}
	return attrs
}
