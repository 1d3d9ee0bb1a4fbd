package render

// Node is a snapshot of one node of a view tree, taken from a backend so it
// can be serialized without holding the backend's locks.
type Node struct {
	// IsText marks a text node; only Text is meaningful then.
	IsText bool
	Text   string

	Tag       string
	Namespace string

	// Attrs are in insertion order. Bool attributes render as bare names.
	Attrs    []Attr
	Styles   []Style
	Children []*Node
}

// Attr is an element attribute.
type Attr struct {
	Name  string
	Value string
	Bool  bool
}

// Style is one CSS declaration of an element's inline style.
type Style struct {
	Property string
	Value    string
}

// TextNode returns a text snapshot.
func TextNode(text string) *Node {
	return &Node{IsText: true, Text: text}
}

// Element returns an element snapshot with the given children.
func Element(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// Attr returns the value of the named attribute and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// StyleAttr returns the inline style declarations joined as a style
// attribute value ("color: red; display: none;"), or "" when there are none.
func (n *Node) StyleAttr() string {
	if len(n.Styles) == 0 {
		return ""
	}
	var s string
	for i, st := range n.Styles {
		if i > 0 {
			s += " "
		}
		s += st.Property + ": " + st.Value + ";"
	}
	return s
}
