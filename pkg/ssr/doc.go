// Package ssr is a server-side backend that renders views to HTML.
//
// Views built with Resources behave as they do in the browser: streams keep
// patching the nodes and Fire delivers events. RenderString takes the
// markup a builder has right after its ready values are applied:
//
//	html, err := ssr.RenderString(ctx, view.Div(view.TextValue("hi")))
//	// <div>hi</div>
//
// The output uses no extra whitespace, so dom.Parse and view.Hydrate can
// adopt it on the other side.
package ssr
