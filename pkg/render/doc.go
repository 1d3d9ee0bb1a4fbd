// Package render serializes view tree snapshots to HTML.
//
// Backends take a Node snapshot of their tree while holding their own locks
// and hand it to a Renderer, so rendering never blocks live updates:
//
//	html, err := render.New().RenderToString(snapshot)
//
// Rendering handles text and attribute escaping, void elements (input, br,
// img, etc.), boolean attributes (disabled, checked, etc.) and inline
// styles. RenderPage wraps a body in a complete HTML document.
//
// Compact output (the default) is what hydration expects: pretty printing
// adds whitespace text nodes which hydration skips, but it also splits text
// that would otherwise stay in a single node.
package render
