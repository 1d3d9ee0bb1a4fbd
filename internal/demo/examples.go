package demo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/view"
)

// Example is a named demo view.
type Example struct {
	Name    string
	Summary string

	// New returns a fresh builder for the example.
	New func() *view.Builder
}

var examples = map[string]Example{
	"counter": {
		Name:    "counter",
		Summary: "Click counter driven by a proxy",
		New:     func() *view.Builder { return NewCounter(0).Component().Into() },
	},
	"todo": {
		Name:    "todo",
		Summary: "Todo list edited through child patches",
		New: func() *view.Builder {
			return NewTodoList("write docs", "ship it").Component().Into()
		},
	},
	"chart": {
		Name:    "chart",
		Summary: "Static SVG bar chart",
		New:     func() *view.Builder { return Chart(30, 80, 55, 100, 10) },
	},
}

// Names returns the example names in sorted order.
func Names() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every example sorted by name.
func All() []Example {
	out := make([]Example, 0, len(examples))
	for _, name := range Names() {
		out = append(out, examples[name])
	}
	return out
}

// Lookup returns the example called name. Unknown names fail with E061.
func Lookup(name string) (Example, error) {
	ex, ok := examples[strings.ToLower(name)]
	if !ok {
		return Example{}, errors.New("E061").
			WithDetail(fmt.Sprintf("No example is called %q.", name)).
			WithSuggestion("Available examples: " + strings.Join(Names(), ", ") + ".")
	}
	return ex, nil
}
