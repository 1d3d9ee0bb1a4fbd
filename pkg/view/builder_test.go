package view

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/rview/pkg/patch"
	"github.com/vango-dev/rview/pkg/stream"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want []StylePatch
	}{
		{"", nil},
		{"color: red", []StylePatch{patch.Put("color", "red")}},
		{"color:red;display : none;", []StylePatch{
			patch.Put("color", "red"),
			patch.Put("display", "none"),
		}},
		{"junk; : x; width: 1px", []StylePatch{patch.Put("width", "1px")}},
		{"background: url(a:b)", []StylePatch{patch.Put("background", "url(a:b)")}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseStyle(tt.in)); diff != "" {
			t.Errorf("ParseStyle(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{KindElement.String(), "Element"},
		{KindText.String(), "Text"},
		{ScopeSelf.String(), "self"},
		{ScopeWindow.String(), "window"},
		{ScopeDocument.String(), "document"},
		{StateBuilding.String(), "Building"},
		{StateLive.String(), "Live"},
		{StateDisposed.String(), "Disposed"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, tt.got)
		}
	}
}

func TestDecompose(t *testing.T) {
	b := Div(Span()).
		WithAttr("id", "a").
		WithAttributeStream(stream.Iter(patch.Put("id", "b"), patch.Put("title", "t"))).
		WithStyleString(stream.Now("color: red; margin: 0")).
		WithTextValue("hi")

	p, err := decompose(b)
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := p.id(); !ok || id != "b" {
		t.Errorf("expected id b, got %q %v", id, ok)
	}
	if len(p.attrs) != 3 || len(p.attrLive) != 0 {
		t.Errorf("expected 3 ready attributes and no live ones, got %d/%d", len(p.attrs), len(p.attrLive))
	}
	if len(p.styles) != 2 {
		t.Errorf("expected 2 styles, got %d", len(p.styles))
	}
	if len(p.children) != 2 {
		t.Fatalf("expected span and text children, got %d", len(p.children))
	}
	if p.children[1].kind != KindText || p.children[1].text != "hi" {
		t.Errorf("expected text child hi, got %+v", p.children[1])
	}
	if got := p.label(-1); got != "div#b" {
		t.Errorf("label = %q", got)
	}
	if got := p.children[0].label(0); got != "span[0]" {
		t.Errorf("child label = %q", got)
	}
	if got := p.children[1].label(1); got != `text[1] "hi"` {
		t.Errorf("text label = %q", got)
	}
}

func TestDecomposeKeepsLiveStreams(t *testing.T) {
	live := stream.NowAndLater[string]("x", stream.Never[string]())
	p, err := decompose(Element("p").WithAttribute("title", live))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.attrs) != 1 {
		t.Errorf("expected the ready value, got %d", len(p.attrs))
	}
	if len(p.attrLive) != 0 {
		t.Errorf("idle streams are not kept, got %d", len(p.attrLive))
	}

	ch := make(chan string)
	p, err = decompose(Element("p").WithAttribute("title", stream.FromChan(ch)))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.attrLive) != 1 {
		t.Errorf("expected a live stream, got %d", len(p.attrLive))
	}
}

func TestDecomposeConsumes(t *testing.T) {
	child := Span()
	b := Div(child)
	if _, err := decompose(b); err != nil {
		t.Fatal(err)
	}
	if !child.Consumed() {
		t.Error("expected child consumed with its parent")
	}
	if _, err := decompose(b); !errors.Is(err, ErrConsumed) {
		t.Errorf("expected ErrConsumed, got %v", err)
	}
}

func TestElementHelpers(t *testing.T) {
	tests := []struct {
		b   *Builder
		tag string
		ns  string
	}{
		{Div(), "div", ""},
		{A("/x"), "a", ""},
		{Input("text"), "input", ""},
		{OptionEl(), "option", ""},
		{SVG(), "svg", SVGNamespace},
		{Circle(), "circle", SVGNamespace},
		{Element("x-widget").WithNamespace("urn:x"), "x-widget", "urn:x"},
	}
	for _, tt := range tests {
		if tt.b.Tag() != tt.tag || tt.b.Namespace() != tt.ns || tt.b.Kind() != KindElement {
			t.Errorf("expected %s in %q, got %s in %q", tt.tag, tt.ns, tt.b.Tag(), tt.b.Namespace())
		}
	}
}

func TestLabelTruncatesOnRuneBoundary(t *testing.T) {
	p := &plan{kind: KindText, text: strings.Repeat("é", 30)}
	got := p.label(2)
	want := `text[2] "` + strings.Repeat("é", 20) + `..."`
	if got != want {
		t.Errorf("label() = %s, want %s", got, want)
	}
	if !utf8.ValidString(got) {
		t.Error("label is not valid UTF-8")
	}
}
