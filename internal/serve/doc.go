// Package serve serves the demo examples over HTTP.
//
// Every example page is server rendered. A small script then opens a
// WebSocket to /examples/{name}/live; the server parses the same markup,
// hydrates a fresh view against it and keeps that view as the session's
// source of truth. Browser clicks are forwarded as events on elements with
// an id, and whenever the example's markup changes the server sends the
// new outer HTML of the example root.
//
//	s := serve.New(serve.Config{Logger: logger})
//	err := serve.Run(ctx, "localhost:8080", s.Handler(), logger)
package serve
