package dom

import (
	"fmt"

	"github.com/vango-dev/rview/pkg/view"
)

var _ view.Locator[*Node] = (*Document)(nil)

// Backend implements view.Resources.
func (d *Document) Backend() string { return "dom" }

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag, namespace string) (*Node, error) {
	if tag == "" {
		return nil, fmt.Errorf("dom: empty tag name")
	}
	return d.newElement(tag, namespace), nil
}

// CreateText returns a detached text node.
func (d *Document) CreateText(text string) (*Node, error) {
	return d.newText(text), nil
}

func (d *Document) check(n *Node) error {
	if n == nil || n.doc != d {
		return ErrForeignNode
	}
	return nil
}

func (d *Document) checkElement(n *Node) error {
	if err := d.check(n); err != nil {
		return err
	}
	if n.typ != ElementNode {
		return ErrNotElement
	}
	return nil
}

func (d *Document) SetText(node *Node, text string) error {
	if err := d.check(node); err != nil {
		return err
	}
	if node.typ != TextNode {
		return ErrNotText
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	node.text = text
	return nil
}

func (d *Document) SetAttribute(node *Node, name, value string) error {
	if err := d.checkElement(node); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	node.setAttrLocked(name, value)
	return nil
}

func (d *Document) RemoveAttribute(node *Node, name string) error {
	if err := d.checkElement(node); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	node.removeAttrLocked(name)
	return nil
}

// SetBoolAttribute sets name to "" when on and removes it otherwise.
func (d *Document) SetBoolAttribute(node *Node, name string, on bool) error {
	if err := d.checkElement(node); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		node.setAttrLocked(name, "")
	} else {
		node.removeAttrLocked(name)
	}
	return nil
}

func (d *Document) SetStyle(node *Node, property, value string) error {
	if err := d.checkElement(node); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	node.setStyleLocked(property, value)
	return nil
}

func (d *Document) RemoveStyle(node *Node, property string) error {
	if err := d.checkElement(node); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	node.removeStyleLocked(property)
	return nil
}

// InsertChild moves child under parent, before ref. A nil ref appends.
func (d *Document) InsertChild(parent, child, ref *Node) error {
	if err := d.checkElement(parent); err != nil {
		return err
	}
	if err := d.check(child); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if child.containsLocked(parent) {
		return ErrCycle
	}
	if ref == nil {
		d.appendLocked(parent, child)
		return nil
	}
	if ref == child {
		return nil
	}
	if ref.parent != parent {
		return ErrNotChild
	}
	child.detachLocked()
	i := parent.indexLocked(ref)
	parent.children = append(parent.children, nil)
	copy(parent.children[i+1:], parent.children[i:])
	parent.children[i] = child
	child.parent = parent
	return nil
}

func (d *Document) RemoveChild(parent, child *Node) error {
	if err := d.check(parent); err != nil {
		return err
	}
	if err := d.check(child); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if child.parent != parent {
		return ErrNotChild
	}
	child.detachLocked()
	return nil
}

// ElementByID returns the first element, in document order, whose id is id.
func (d *Document) ElementByID(id string) (*Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := byID(d.root, id)
	return n, n != nil
}

func byID(n *Node, id string) *Node {
	if n.typ != ElementNode {
		return nil
	}
	if v, ok := n.attrLocked("id"); ok && v == id {
		return n
	}
	for _, c := range n.children {
		if found := byID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// ChildAt returns parent's index-th child, not counting whitespace-only
// text nodes.
func (d *Document) ChildAt(parent *Node, index int) (*Node, bool) {
	if d.check(parent) != nil || index < 0 {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := 0
	for _, c := range parent.children {
		if c.isBlank() {
			continue
		}
		if i == index {
			return c, true
		}
		i++
	}
	return nil, false
}

func (d *Document) IsText(node *Node) bool {
	return node != nil && node.typ == TextNode
}

func (d *Document) TagName(node *Node) string {
	if node == nil {
		return ""
	}
	return node.tag
}

func (d *Document) Describe(node *Node) string {
	if node == nil {
		return "nothing"
	}
	return node.String()
}
