package dom

import "errors"

var (
	// ErrForeignNode is returned when a node belongs to another document.
	ErrForeignNode = errors.New("dom: node belongs to another document")
	// ErrNotText is returned by SetText on an element.
	ErrNotText = errors.New("dom: not a text node")
	// ErrNotElement is returned for attribute, style and child edits on a
	// text node.
	ErrNotElement = errors.New("dom: not an element")
	// ErrNotChild is returned when a node is not a child of the given parent.
	ErrNotChild = errors.New("dom: not a child of parent")
	// ErrCycle is returned when inserting a node into its own subtree.
	ErrCycle = errors.New("dom: node would contain itself")
)
