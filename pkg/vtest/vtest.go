package vtest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/rview/pkg/dom"
	"github.com/vango-dev/rview/pkg/ssr"
	"github.com/vango-dev/rview/pkg/view"
)

// Timeout bounds every wait in this package.
var Timeout = 2 * time.Second

// Quiet discards engine logs.
var Quiet = view.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// Eventually polls cond until it holds, failing the test after Timeout.
func Eventually(tb testing.TB, what string, cond func() bool) {
	tb.Helper()
	deadline := time.Now().Add(Timeout)
	for !cond() {
		if time.Now().After(deadline) {
			tb.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// Build builds b on doc with Quiet and disposes the view when the test
// ends. The view stays detached from the document body.
func Build(tb testing.TB, doc *dom.Document, b *view.Builder, opts ...view.Option) *view.View[*dom.Node] {
	tb.Helper()
	v, err := view.Build[*dom.Node](context.Background(), doc, b, append([]view.Option{Quiet}, opts...)...)
	if err != nil {
		tb.Fatalf("Build() error: %v", err)
	}
	tb.Cleanup(func() { v.Dispose() })
	return v
}

// Mount is Build followed by appending the view's node to the body.
func Mount(tb testing.TB, doc *dom.Document, b *view.Builder, opts ...view.Option) *view.View[*dom.Node] {
	tb.Helper()
	v := Build(tb, doc, b, opts...)
	if err := doc.InsertChild(doc.Body(), v.Node(), nil); err != nil {
		tb.Fatalf("InsertChild() error: %v", err)
	}
	return v
}

// RenderToString renders b on the server backend.
func RenderToString(tb testing.TB, b *view.Builder) string {
	tb.Helper()
	html, err := ssr.RenderString(context.Background(), b, ssr.WithViewOptions(Quiet))
	if err != nil {
		tb.Fatalf("RenderString() error: %v", err)
	}
	return html
}

// ExpectContains asserts that b renders markup containing expected.
func ExpectContains(tb testing.TB, b *view.Builder, expected string) {
	tb.Helper()
	html := RenderToString(tb, b)
	if !strings.Contains(html, expected) {
		tb.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that b renders markup without unexpected.
func ExpectNotContains(tb testing.TB, b *view.Builder, unexpected string) {
	tb.Helper()
	html := RenderToString(tb, b)
	if strings.Contains(html, unexpected) {
		tb.Errorf("expected rendered output NOT to contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectText waits until node's text content equals want.
func ExpectText(tb testing.TB, node *dom.Node, want string) {
	tb.Helper()
	deadline := time.Now().Add(Timeout)
	for {
		got := node.TextContent()
		if got == want {
			return
		}
		if time.Now().After(deadline) {
			tb.Fatalf("text of %s = %q, want %q", node, got, want)
		}
		time.Sleep(time.Millisecond)
	}
}

// ExpectAttribute waits until node's attribute name equals value.
func ExpectAttribute(tb testing.TB, node *dom.Node, name, value string) {
	tb.Helper()
	Eventually(tb, name+"="+value, func() bool {
		got, ok := node.Attribute(name)
		return ok && got == value
	})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
