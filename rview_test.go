package rview

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/vango-dev/rview/pkg/relay"
	"github.com/vango-dev/rview/pkg/ssr"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestRenderThenHydrate(t *testing.T) {
	ctx := context.Background()
	page := func(count *relay.Proxy[int]) *Builder {
		return Div(
			P(Text(Watch(count, strconv.Itoa))).WithAttr("id", "n"),
		).WithAttr("id", "app")
	}

	count := NewProxy(3)
	defer count.Close()

	var buf bytes.Buffer
	if err := RenderPage(ctx, &buf, "test", page(count), ssr.WithViewOptions(quiet)); err != nil {
		t.Fatalf("RenderPage() error: %v", err)
	}
	doc, err := ParseDocument(&buf)
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	v, err := Hydrate(ctx, doc, page(count), quiet)
	if err != nil {
		t.Fatalf("Hydrate() error: %v", err)
	}
	defer v.Dispose()

	p := v.Children()[0].Node()
	if got := p.TextContent(); got != "3" {
		t.Fatalf("text = %q, want 3", got)
	}

	count.Set(4)
	deadline := time.Now().Add(2 * time.Second)
	for p.TextContent() != "4" {
		if time.Now().After(deadline) {
			t.Fatalf("text = %q, want 4", p.TextContent())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBuildWithEventSink(t *testing.T) {
	doc := NewDocument()
	clicked := make(chan Event, 1)
	b := Button(TextValue("go")).On("click", EventSink(func(ev Event) error {
		clicked <- ev
		return nil
	}))

	v, err := Build(context.Background(), doc, b, quiet)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	defer v.Dispose()

	if n := doc.Fire(v.Node(), "click", "raw"); n != 1 {
		t.Fatalf("Fire() reached %d listeners, want 1", n)
	}
	ev := <-clicked
	if ev.Type != "click" || ev.Raw != "raw" {
		t.Errorf("event = %+v", ev)
	}
}

func TestRenderString(t *testing.T) {
	out, err := RenderString(context.Background(), Ul(Li(TextValue("a"))), ssr.WithViewOptions(quiet))
	if err != nil {
		t.Fatal(err)
	}
	if out != "<ul><li>a</li></ul>" {
		t.Errorf("RenderString() = %q", out)
	}
}
