package dom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/rview/pkg/view"
)

func mustElement(t *testing.T, d *Document, tag string) *Node {
	t.Helper()
	n, err := d.CreateElement(tag, "")
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNewDocument(t *testing.T) {
	d := NewDocument()
	if got := d.HTML(); got != "<html><head></head><body></body></html>" {
		t.Errorf("HTML() = %q", got)
	}
	if d.Body().Parent() != d.Root() {
		t.Error("body should be a child of the root")
	}
}

func TestAttributesAndStyles(t *testing.T) {
	d := NewDocument()
	n := mustElement(t, d, "DIV")

	if n.Tag() != "div" {
		t.Errorf("expected lower-case tag, got %q", n.Tag())
	}

	d.SetAttribute(n, "id", "a")
	d.SetAttribute(n, "class", "x")
	d.SetAttribute(n, "id", "b")
	d.SetBoolAttribute(n, "hidden", true)
	d.SetStyle(n, "color", "red")
	d.SetStyle(n, "display", "none")
	d.RemoveStyle(n, "color")

	if v, _ := n.Attribute("id"); v != "b" {
		t.Errorf("expected last write to win, got id=%q", v)
	}
	if !n.HasAttribute("hidden") {
		t.Error("expected hidden to be set")
	}
	if _, ok := n.Style("color"); ok {
		t.Error("expected color to be removed")
	}
	want := `<div id="b" class="x" hidden style="display: none;"></div>`
	if got := n.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}

	d.SetBoolAttribute(n, "hidden", false)
	d.RemoveAttribute(n, "class")
	if got := n.HTML(); got != `<div id="b" style="display: none;"></div>` {
		t.Errorf("HTML() after removal = %q", got)
	}
}

func TestTextNodes(t *testing.T) {
	d := NewDocument()
	txt, _ := d.CreateText("a < b")
	if err := d.SetAttribute(txt, "id", "x"); !errors.Is(err, ErrNotElement) {
		t.Errorf("expected ErrNotElement, got %v", err)
	}
	p := mustElement(t, d, "p")
	if err := d.SetText(p, "x"); !errors.Is(err, ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", err)
	}
	d.InsertChild(p, txt, nil)
	if got := p.HTML(); got != "<p>a &lt; b</p>" {
		t.Errorf("HTML() = %q", got)
	}
	d.SetText(txt, "c")
	if got := p.TextContent(); got != "c" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestInsertChild(t *testing.T) {
	d := NewDocument()
	ul := mustElement(t, d, "ul")
	a := mustElement(t, d, "li")
	b := mustElement(t, d, "li")
	c := mustElement(t, d, "li")
	d.SetAttribute(a, "id", "a")
	d.SetAttribute(b, "id", "b")
	d.SetAttribute(c, "id", "c")

	d.InsertChild(ul, a, nil)
	d.InsertChild(ul, c, nil)
	if err := d.InsertChild(ul, b, c); err != nil {
		t.Fatal(err)
	}

	ids := func() []string {
		var out []string
		for _, n := range ul.Children() {
			id, _ := n.Attribute("id")
			out = append(out, id)
		}
		return out
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids()); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	// Inserting an attached node moves it
	d.InsertChild(ul, c, a)
	if diff := cmp.Diff([]string{"c", "a", "b"}, ids()); diff != "" {
		t.Errorf("after move (-want +got):\n%s", diff)
	}

	if err := d.RemoveChild(ul, a); err != nil {
		t.Fatal(err)
	}
	if a.Parent() != nil {
		t.Error("removed node should be detached")
	}
	if err := d.RemoveChild(ul, a); !errors.Is(err, ErrNotChild) {
		t.Errorf("expected ErrNotChild, got %v", err)
	}
	if err := d.InsertChild(ul, a, mustElement(t, d, "li")); !errors.Is(err, ErrNotChild) {
		t.Errorf("expected ErrNotChild for a foreign ref, got %v", err)
	}
	if err := d.InsertChild(b, ul, nil); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestForeignNode(t *testing.T) {
	d1 := NewDocument()
	d2 := NewDocument()
	n := mustElement(t, d2, "div")
	if err := d1.SetAttribute(n, "id", "x"); !errors.Is(err, ErrForeignNode) {
		t.Errorf("expected ErrForeignNode, got %v", err)
	}
	if err := d1.InsertChild(d1.Body(), n, nil); !errors.Is(err, ErrForeignNode) {
		t.Errorf("expected ErrForeignNode, got %v", err)
	}
}

func TestParse(t *testing.T) {
	d, err := ParseString(`<!DOCTYPE html><html><body><div id="app" style="color: red">
		<!-- c -->
		<p>one</p>
		<p>two</p>
		<svg><circle r="4"></circle></svg>
	</div></body></html>`)
	if err != nil {
		t.Fatal(err)
	}

	app, ok := d.ElementByID("app")
	if !ok {
		t.Fatal("expected #app")
	}
	if v, _ := app.Style("color"); v != "red" {
		t.Errorf("expected parsed style, got %q", v)
	}
	if app.HasAttribute("style") {
		t.Error("style should be parsed into properties")
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "<p>one</p>"},
		{1, "<p>two</p>"},
		{2, `<svg xmlns="http://www.w3.org/2000/svg"><circle r="4"></circle></svg>`},
	}
	for _, tt := range tests {
		n, ok := d.ChildAt(app, tt.index)
		if !ok {
			t.Errorf("ChildAt(%d): missing", tt.index)
			continue
		}
		if got := n.HTML(); got != tt.want {
			t.Errorf("ChildAt(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
	if _, ok := d.ChildAt(app, 3); ok {
		t.Error("expected no fourth child")
	}

	svg, _ := d.ChildAt(app, 2)
	if svg.Namespace() != view.SVGNamespace {
		t.Errorf("expected svg namespace, got %q", svg.Namespace())
	}
}

func TestListeners(t *testing.T) {
	d := NewDocument()
	btn := mustElement(t, d, "button")

	var got []view.Event
	remove, err := d.AddListener(btn, view.ScopeSelf, "click", func(e view.Event) {
		got = append(got, e)
	})
	if err != nil {
		t.Fatal(err)
	}
	winCalls := 0
	d.AddListener(nil, view.ScopeWindow, "resize", func(view.Event) { winCalls++ })

	if n := d.Fire(btn, "click", 1); n != 1 {
		t.Errorf("expected 1 listener called, got %d", n)
	}
	d.Fire(btn, "keydown", nil)
	d.FireWindow("resize", nil)
	d.FireDocument("resize", nil)

	if len(got) != 1 || got[0].Raw != 1 || got[0].Scope != view.ScopeSelf {
		t.Errorf("unexpected events %+v", got)
	}
	if winCalls != 1 {
		t.Errorf("expected 1 window call, got %d", winCalls)
	}
	if d.ListenerCount(btn) != 1 || d.WindowListenerCount() != 1 || d.DocumentListenerCount() != 0 {
		t.Error("unexpected listener counts")
	}

	remove()
	remove()
	if d.ListenerCount(btn) != 0 {
		t.Errorf("expected listener removed, got %d", d.ListenerCount(btn))
	}
	if n := d.Fire(btn, "click", nil); n != 0 {
		t.Errorf("expected no listener called, got %d", n)
	}
}

func TestListenerMayRemoveItself(t *testing.T) {
	d := NewDocument()
	btn := mustElement(t, d, "button")

	var remove func()
	calls := 0
	remove, _ = d.AddListener(btn, view.ScopeSelf, "click", func(view.Event) {
		calls++
		remove()
	})
	d.Fire(btn, "click", nil)
	d.Fire(btn, "click", nil)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
