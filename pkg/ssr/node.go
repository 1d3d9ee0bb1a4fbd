package ssr

import (
	"strings"
	"sync"

	"github.com/vango-dev/rview/pkg/render"
	"github.com/vango-dev/rview/pkg/view"
)

// Node is a server-side element or text node. Each node has its own lock;
// writers hold one node's lock at a time.
type Node struct {
	mu sync.RWMutex

	text   bool
	tag    string
	ns     string
	value  string
	attrs  []render.Attr
	styles []render.Style

	children  []*Node
	listeners map[string][]*entry
}

type entry struct {
	fn func(view.Event)
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.text }

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Attribute returns the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]*Node(nil), n.children...)
}

// Text returns the text of a text node, or the concatenated text of an
// element's descendants.
func (n *Node) Text() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.text {
		sb.WriteString(n.value)
		return
	}
	for _, c := range n.children {
		c.collectText(sb)
	}
}

// Snapshot copies n and its subtree for rendering.
func (n *Node) Snapshot() *render.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.text {
		return render.TextNode(n.value)
	}
	s := &render.Node{
		Tag:       n.tag,
		Namespace: n.ns,
		Attrs:     append([]render.Attr(nil), n.attrs...),
		Styles:    append([]render.Style(nil), n.styles...),
	}
	for _, c := range n.children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// HTML renders n and its subtree without extra whitespace, which keeps the
// output hydratable.
func (n *Node) HTML() string {
	out, err := render.New().RenderToString(n.Snapshot())
	if err != nil {
		return ""
	}
	return out
}

// Fire calls n's listeners for typ and returns how many ran. Listeners run
// without n's lock held.
func (n *Node) Fire(typ string, raw any) int {
	return n.dispatch(view.ScopeSelf, typ, raw)
}

func (n *Node) dispatch(scope view.Scope, typ string, raw any) int {
	n.mu.RLock()
	list := append([]*entry(nil), n.listeners[typ]...)
	n.mu.RUnlock()

	ev := view.Event{Type: typ, Scope: scope, Raw: raw}
	for _, e := range list {
		e.fn(ev)
	}
	return len(list)
}

// ListenerCount returns the number of listeners registered on n.
func (n *Node) ListenerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	total := 0
	for _, list := range n.listeners {
		total += len(list)
	}
	return total
}

func (n *Node) addListener(name string, fn func(view.Event)) func() {
	e := &entry{fn: fn}
	n.mu.Lock()
	if n.listeners == nil {
		n.listeners = make(map[string][]*entry)
	}
	n.listeners[name] = append(n.listeners[name], e)
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		list := n.listeners[name]
		for i, x := range list {
			if x == e {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(n.listeners, name)
			return
		}
		n.listeners[name] = list
	}
}
