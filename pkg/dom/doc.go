// Package dom is an in-memory document backend for views.
//
// A Document implements view.Resources and view.Locator over *Node, so
// views can be built into it or hydrated onto markup read with Parse:
//
//	doc, err := dom.ParseString(html)
//	v, err := view.Hydrate[*dom.Node](ctx, doc, app)
//	doc.Fire(button, "click", nil)
//
// Every read and write takes the document's single lock. Event listeners
// are called without it, so they may edit the document.
package dom
