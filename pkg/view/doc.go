// Package view turns inert builders into live views on a backend.
//
// A Builder declares a node: its tag, and streams of text, attribute,
// style and child edits, plus event sinks. Building it against a backend
// applies every value that is already known, then pumps the remaining
// streams from one goroutine per declaration:
//
//	count := channel.NewBroadcast[string](4)
//	b := view.Div(
//		view.Text(stream.NowAndLater("0", count.Receiver())),
//	).WithAttr("id", "counter")
//
//	v, err := view.Build[*dom.Node](ctx, doc, b)
//	defer v.Dispose()
//
// # Backends
//
// Resources is the set of primitives a backend offers. pkg/dom implements it
// over an in-memory document and pkg/ssr over plain nodes that render to
// HTML. A Locator can also find existing nodes, which is what Hydrate needs
// to adopt server-rendered markup instead of creating it.
//
// # Lifecycle
//
// A View is Live once Build returns. Dispose cancels its tasks, removes its
// listeners and disposes its children; it is safe to call more than once.
package view
