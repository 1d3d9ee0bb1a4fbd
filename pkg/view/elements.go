package view

// SVGNamespace is the namespace of SVG elements.
const SVGNamespace = "http://www.w3.org/2000/svg"

func el(tag string, children []*Builder) *Builder {
	return Element(tag).Append(children...)
}

func svg(tag string, children []*Builder) *Builder {
	return ElementNS(tag, SVGNamespace).Append(children...)
}

// Document structure
func Main(children ...*Builder) *Builder    { return el("main", children) }
func Header(children ...*Builder) *Builder  { return el("header", children) }
func Footer(children ...*Builder) *Builder  { return el("footer", children) }
func Nav(children ...*Builder) *Builder     { return el("nav", children) }
func Section(children ...*Builder) *Builder { return el("section", children) }
func Article(children ...*Builder) *Builder { return el("article", children) }

// Content
func Div(children ...*Builder) *Builder    { return el("div", children) }
func Span(children ...*Builder) *Builder   { return el("span", children) }
func P(children ...*Builder) *Builder      { return el("p", children) }
func H1(children ...*Builder) *Builder     { return el("h1", children) }
func H2(children ...*Builder) *Builder     { return el("h2", children) }
func H3(children ...*Builder) *Builder     { return el("h3", children) }
func Pre(children ...*Builder) *Builder    { return el("pre", children) }
func Code(children ...*Builder) *Builder   { return el("code", children) }
func Strong(children ...*Builder) *Builder { return el("strong", children) }
func Em(children ...*Builder) *Builder     { return el("em", children) }
func Ul(children ...*Builder) *Builder     { return el("ul", children) }
func Ol(children ...*Builder) *Builder     { return el("ol", children) }
func Li(children ...*Builder) *Builder     { return el("li", children) }

// A returns an anchor linking to href.
func A(href string, children ...*Builder) *Builder {
	return el("a", children).WithAttr("href", href)
}

// Img returns an image element. It has no children.
func Img(src, alt string) *Builder {
	return Element("img").WithAttr("src", src).WithAttr("alt", alt)
}

func Br() *Builder { return Element("br") }
func Hr() *Builder { return Element("hr") }

// Forms
func Form(children ...*Builder) *Builder     { return el("form", children) }
func Label(children ...*Builder) *Builder    { return el("label", children) }
func Button(children ...*Builder) *Builder   { return el("button", children) }
func Select(children ...*Builder) *Builder   { return el("select", children) }
func OptionEl(children ...*Builder) *Builder { return el("option", children) }

// Input returns an input element of the given type.
func Input(typ string) *Builder {
	return Element("input").WithAttr("type", typ)
}

// SVG returns an svg root element.
func SVG(children ...*Builder) *Builder    { return svg("svg", children) }
func G(children ...*Builder) *Builder      { return svg("g", children) }
func Circle(children ...*Builder) *Builder { return svg("circle", children) }
func Rect(children ...*Builder) *Builder   { return svg("rect", children) }
func Line(children ...*Builder) *Builder   { return svg("line", children) }
func Path(children ...*Builder) *Builder   { return svg("path", children) }
func SVGText(children ...*Builder) *Builder {
	return svg("text", children)
}
