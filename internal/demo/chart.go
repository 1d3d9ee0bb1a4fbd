package demo

import (
	"strconv"

	"github.com/vango-dev/rview/pkg/view"
)

const (
	barWidth  = 20
	barGap    = 4
	barHeight = 100
)

// Chart returns a static SVG bar chart. Values are clamped to [0, 100].
func Chart(values ...int) *view.Builder {
	width := len(values) * (barWidth + barGap)
	bars := view.G().WithAttr("class", "bars")
	for i, v := range values {
		v = min(max(v, 0), barHeight)
		bars.WithChild(view.Rect().
			WithAttr("x", strconv.Itoa(i*(barWidth+barGap))).
			WithAttr("y", strconv.Itoa(barHeight-v)).
			WithAttr("width", strconv.Itoa(barWidth)).
			WithAttr("height", strconv.Itoa(v)))
	}
	return view.SVG(
		view.SVGText(view.TextValue("values")).WithAttr("x", "0").WithAttr("y", "12"),
		bars,
	).
		WithAttr("id", "chart").
		WithAttr("viewBox", "0 0 "+strconv.Itoa(width)+" "+strconv.Itoa(barHeight)).
		WithStyleValue("max-width", "100%")
}
