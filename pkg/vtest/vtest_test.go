package vtest

import (
	"testing"

	"github.com/vango-dev/rview/pkg/dom"
	"github.com/vango-dev/rview/pkg/relay"
	"github.com/vango-dev/rview/pkg/view"
)

func TestMountAndExpect(t *testing.T) {
	doc := dom.NewDocument()
	label := relay.NewProxy("a")
	defer label.Close()

	v := Mount(t, doc, view.Div(view.Text(label.Stream())).
		WithAttribute("title", label.Stream()))

	if v.Node().Parent() != doc.Body() {
		t.Fatal("Mount() did not attach the view to the body")
	}
	ExpectText(t, v.Node(), "a")

	label.Set("b")
	ExpectText(t, v.Node(), "b")
	ExpectAttribute(t, v.Node(), "title", "b")
}

func TestBuildStaysDetached(t *testing.T) {
	doc := dom.NewDocument()
	v := Build(t, doc, view.Span())
	if v.Node().Parent() != nil {
		t.Error("Build() attached the view")
	}
}

func TestRenderAssertions(t *testing.T) {
	ExpectContains(t, view.P(view.TextValue("Welcome")), "<p>Welcome</p>")
	ExpectNotContains(t, view.P(view.TextValue("Welcome")), "Login")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"longer text", 6, "longer..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
