package ssr

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/dom"
	"github.com/vango-dev/rview/pkg/patch"
	"github.com/vango-dev/rview/pkg/stream"
	"github.com/vango-dev/rview/pkg/view"
)

func TestRenderString(t *testing.T) {
	tests := []struct {
		name string
		b    *view.Builder
		want string
	}{
		{
			name: "text escaping",
			b:    view.P(view.TextValue(`<b>&"`)),
			want: `<p>&lt;b&gt;&amp;&quot;</p>`,
		},
		{
			name: "void element",
			b:    view.Div(view.Input("text").WithBoolAttr("disabled", true), view.Br()),
			want: `<div><input type="text" disabled><br></div>`,
		},
		{
			name: "bool attribute off",
			b:    view.Button().WithBoolAttr("disabled", false),
			want: `<button></button>`,
		},
		{
			name: "styles",
			b:    view.Span().WithStyleString(stream.Now("color: red; display: none")),
			want: `<span style="color: red; display: none;"></span>`,
		},
		{
			name: "svg",
			b:    view.SVG(view.Path().WithAttr("d", "M0 0")),
			want: `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"></path></svg>`,
		},
		{
			name: "last attribute write wins",
			b: view.Div().WithAttributeStream(stream.Iter(
				patch.Put("class", "a"),
				patch.Put("class", "b"),
			)),
			want: `<div class="b"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderString(context.Background(), tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RenderString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderStringError(t *testing.T) {
	b := view.Div()
	if _, err := RenderString(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if _, err := RenderString(context.Background(), b); !errors.Is(err, view.ErrConsumed) {
		t.Errorf("expected ErrConsumed, got %v", err)
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPage(context.Background(), &buf, "Demo", view.Div().WithAttr("id", "app"))
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<!DOCTYPE html>", "<title>Demo</title>", `<div id="app"></div>`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestLiveNodes(t *testing.T) {
	res := NewResources()
	tx, rx := channel.New[string](4)
	defer tx.Close()
	clicks, clickRx := channel.New[view.Event](4)
	defer clickRx.Close()

	v, err := view.Build[*Node](context.Background(), res,
		view.Button(view.Text(stream.NowAndLater[string]("0", rx))).On("click", clicks))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Dispose()

	if v.Node().ListenerCount() != 1 {
		t.Errorf("expected a listener, got %d", v.Node().ListenerCount())
	}
	if n := v.Node().Fire("click", nil); n != 1 {
		t.Errorf("expected 1 listener called, got %d", n)
	}
	if _, p := clickRx.TryNext(); p != stream.Ready {
		t.Error("expected click forwarded")
	}

	tx.TrySend("1")
	deadline := time.Now().Add(2 * time.Second)
	for v.Node().Text() != "1" {
		if time.Now().After(deadline) {
			t.Fatalf("expected text 1, got %q", v.Node().Text())
		}
		time.Sleep(time.Millisecond)
	}

	v.Dispose()
	if v.Node().ListenerCount() != 0 {
		t.Error("expected listener removed on dispose")
	}
}

func TestGlobalListeners(t *testing.T) {
	res := NewResources()
	calls := 0
	remove, _ := res.AddListener(nil, view.ScopeWindow, "resize", func(view.Event) { calls++ })
	res.FireWindow("resize", nil)
	res.FireDocument("resize", nil)
	remove()
	res.FireWindow("resize", nil)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestResourcesErrors(t *testing.T) {
	res := NewResources()
	txt, _ := res.CreateText("x")
	el, _ := res.CreateElement("div", "")
	other, _ := res.CreateElement("p", "")

	if err := res.SetAttribute(txt, "id", "a"); !errors.Is(err, ErrNotElement) {
		t.Errorf("expected ErrNotElement, got %v", err)
	}
	if err := res.SetText(el, "a"); !errors.Is(err, ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", err)
	}
	if err := res.RemoveChild(el, other); !errors.Is(err, ErrNotChild) {
		t.Errorf("expected ErrNotChild, got %v", err)
	}
}

// Server output parsed back into a document hydrates without changes.
func TestRenderedMarkupHydrates(t *testing.T) {
	app := func() *view.Builder {
		return view.Div(
			view.H1(view.TextValue("Todo")),
			view.Ul(view.Li(view.TextValue("one")), view.Li(view.TextValue("two"))),
		).WithAttr("id", "app")
	}

	var buf bytes.Buffer
	if err := RenderPage(context.Background(), &buf, "t", app()); err != nil {
		t.Fatal(err)
	}
	doc, err := dom.Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	before := doc.HTML()

	v, err := view.Hydrate[*dom.Node](context.Background(), doc, app())
	if err != nil {
		t.Fatalf("Hydrate() error: %v", err)
	}
	defer v.Dispose()
	if doc.HTML() != before {
		t.Error("hydration changed the document")
	}
}
