package dom

import (
	"github.com/vango-dev/rview/pkg/view"
)

type entry struct {
	fn func(view.Event)
}

// AddListener implements view.Resources. Window and document scoped
// listeners ignore node.
func (d *Document) AddListener(node *Node, scope view.Scope, name string, fn func(view.Event)) (func(), error) {
	target := node
	switch scope {
	case view.ScopeWindow:
		target = d.window
	case view.ScopeDocument:
		target = d.document
	default:
		if err := d.check(node); err != nil {
			return nil, err
		}
	}

	e := &entry{fn: fn}
	d.mu.Lock()
	if target.listeners == nil {
		target.listeners = make(map[string][]*entry)
	}
	target.listeners[name] = append(target.listeners[name], e)
	d.mu.Unlock()

	return func() { d.removeListener(target, name, e) }, nil
}

func (d *Document) removeListener(target *Node, name string, e *entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := target.listeners[name]
	for i, x := range list {
		if x == e {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(target.listeners, name)
		return
	}
	target.listeners[name] = list
}

// Fire dispatches an event of type typ to node's listeners and returns how
// many were called. Events do not bubble. Listeners run on the caller's
// goroutine without the document lock held.
func (d *Document) Fire(node *Node, typ string, raw any) int {
	if d.check(node) != nil {
		return 0
	}
	return d.dispatch(node, view.ScopeSelf, typ, raw)
}

// FireWindow dispatches an event to window listeners.
func (d *Document) FireWindow(typ string, raw any) int {
	return d.dispatch(d.window, view.ScopeWindow, typ, raw)
}

// FireDocument dispatches an event to document listeners.
func (d *Document) FireDocument(typ string, raw any) int {
	return d.dispatch(d.document, view.ScopeDocument, typ, raw)
}

func (d *Document) dispatch(target *Node, scope view.Scope, typ string, raw any) int {
	d.mu.Lock()
	list := append([]*entry(nil), target.listeners[typ]...)
	d.mu.Unlock()

	ev := view.Event{Type: typ, Scope: scope, Raw: raw}
	for _, e := range list {
		e.fn(ev)
	}
	return len(list)
}

// ListenerCount returns the number of listeners registered on node.
func (d *Document) ListenerCount(node *Node) int {
	if d.check(node) != nil {
		return 0
	}
	return d.count(node)
}

// WindowListenerCount returns the number of window listeners.
func (d *Document) WindowListenerCount() int { return d.count(d.window) }

// DocumentListenerCount returns the number of document listeners.
func (d *Document) DocumentListenerCount() int { return d.count(d.document) }

func (d *Document) count(target *Node) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, list := range target.listeners {
		n += len(list)
	}
	return n
}
