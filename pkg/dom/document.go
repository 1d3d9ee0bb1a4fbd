package dom

import (
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/vango-dev/rview/pkg/view"
)

// Document is an in-memory document tree. One lock serializes every
// mutation and read, playing the part of a browser's UI thread, so views can
// edit it from any goroutine.
type Document struct {
	mu sync.Mutex

	root *Node
	head *Node
	body *Node

	window   *Node
	document *Node
}

// NewDocument returns an empty <html><head></head><body></body></html>
// document.
func NewDocument() *Document {
	d := newDocument()
	d.root = d.newElement("html", "")
	d.head = d.newElement("head", "")
	d.body = d.newElement("body", "")
	d.appendLocked(d.root, d.head)
	d.appendLocked(d.root, d.body)
	return d
}

func newDocument() *Document {
	d := &Document{}
	// Window and document listeners live on two detached pseudo nodes.
	d.window = d.newElement("#window", "")
	d.document = d.newElement("#document", "")
	return d
}

// Parse reads an HTML document, for example server-rendered output, so that
// views can be hydrated onto it. Comments and doctypes are dropped.
func Parse(r io.Reader) (*Document, error) {
	tree, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := newDocument()
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			d.root = d.convert(c)
			break
		}
	}
	if d.root == nil {
		d.root = d.newElement("html", "")
	}
	d.head = findElement(d.root, "head")
	d.body = findElement(d.root, "body")
	if d.body == nil {
		d.body = d.newElement("body", "")
		d.appendLocked(d.root, d.body)
	}
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) convert(h *html.Node) *Node {
	n := d.newElement(h.Data, namespaceURI(h.Namespace))
	for _, a := range h.Attr {
		if a.Key == "style" && a.Namespace == "" {
			for _, sp := range view.ParseStyle(a.Val) {
				n.setStyleLocked(sp.Key, sp.Value)
			}
			continue
		}
		n.setAttrLocked(a.Key, a.Val)
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			d.appendLocked(n, d.convert(c))
		case html.TextNode:
			d.appendLocked(n, d.newText(c.Data))
		}
	}
	return n
}

func namespaceURI(ns string) string {
	switch ns {
	case "svg":
		return view.SVGNamespace
	case "math":
		return "http://www.w3.org/1998/Math/MathML"
	}
	return ""
}

func findElement(n *Node, tag string) *Node {
	if n.typ == ElementNode && n.tag == tag {
		return n
	}
	for _, c := range n.children {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func (d *Document) newElement(tag, ns string) *Node {
	if ns == "" {
		tag = strings.ToLower(tag)
	}
	return &Node{doc: d, typ: ElementNode, tag: tag, ns: ns}
}

func (d *Document) newText(text string) *Node {
	return &Node{doc: d, typ: TextNode, text: text}
}

func (d *Document) appendLocked(parent, child *Node) {
	child.detachLocked()
	child.parent = parent
	parent.children = append(parent.children, child)
}

// Root returns the <html> element.
func (d *Document) Root() *Node { return d.root }

// Head returns the <head> element, or nil when a parsed document has none.
func (d *Document) Head() *Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *Node { return d.body }

// HTML renders the whole document from the <html> element down.
func (d *Document) HTML() string {
	return d.root.HTML()
}
