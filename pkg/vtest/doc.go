// Package vtest provides testing helpers for rview views.
//
// The helpers reduce the boilerplate of building a view on the document
// backend, waiting for stream-driven updates and asserting on markup.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    doc := dom.NewDocument()
//	    v := vtest.Mount(t, doc, Counter())
//	    doc.Fire(v.Children()[1].Node(), "click", nil)
//	    vtest.ExpectText(t, v.Children()[0].Node(), "1")
//	}
//
// # Render Assertions
//
// Assert on server-rendered HTML output:
//
//	vtest.ExpectContains(t, Greeting(), "Welcome")
//	vtest.ExpectNotContains(t, Greeting(), "Login")
//
// Builders are consumed by rendering, so each assertion needs a fresh one.
package vtest
