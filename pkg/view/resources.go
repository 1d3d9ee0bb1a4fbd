package view

// Resources is the set of primitives a backend provides to the engine.
// N is the backend's node handle type. Implementations must be safe for
// concurrent use: every live declaration mutates from its own goroutine.
type Resources[N any] interface {
	// Backend names the backend in logs and metrics (e.g., "dom", "ssr").
	Backend() string

	CreateElement(tag, namespace string) (N, error)
	CreateText(text string) (N, error)
	SetText(node N, text string) error

	SetAttribute(node N, name, value string) error
	RemoveAttribute(node N, name string) error
	// SetBoolAttribute adds the attribute when on is true and removes it
	// otherwise.
	SetBoolAttribute(node N, name string, on bool) error

	SetStyle(node N, property, value string) error
	RemoveStyle(node N, property string) error

	// InsertChild inserts child into parent before ref. A zero ref appends.
	InsertChild(parent, child, ref N) error
	RemoveChild(parent, child N) error

	// AddListener calls fn for every event named name on scope. For
	// ScopeSelf the node is the target; other scopes ignore it. Backends
	// must not hold locks while calling fn, and remove must be safe to call
	// from within fn.
	AddListener(node N, scope Scope, name string, fn func(Event)) (remove func(), err error)
}

// Locator finds existing nodes for hydration. Lookups must not mutate.
type Locator[N any] interface {
	Resources[N]

	// ElementByID finds the element with the given id attribute.
	ElementByID(id string) (N, bool)
	// ChildAt returns the index-th child of parent, counting only elements
	// and text nodes that are not whitespace only.
	ChildAt(parent N, index int) (N, bool)
	IsText(node N) bool
	// TagName returns the element's tag. It is compared case-insensitively.
	TagName(node N) string
	// Describe renders a short label for node in error messages.
	Describe(node N) string
}
