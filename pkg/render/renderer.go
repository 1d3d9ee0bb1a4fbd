package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Pretty output adds whitespace text nodes, so it should not be used for
	// markup that will be hydrated.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Option configures a Renderer.
type Option func(*Config)

// WithPretty enables or disables pretty printing.
func WithPretty(pretty bool) Option {
	return func(c *Config) {
		c.Pretty = pretty
	}
}

// WithIndent sets the indentation string for pretty printing.
func WithIndent(indent string) Option {
	return func(c *Config) {
		c.Indent = indent
	}
}

// Renderer serializes Node snapshots to HTML.
type Renderer struct {
	config Config
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// New creates a Renderer from options.
func New(opts ...Option) *Renderer {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}
	return NewRenderer(config)
}

// RenderToString renders a node tree to an HTML string.
func (r *Renderer) RenderToString(node *Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *Node) error {
	ew := &errWriter{w: w}
	r.renderNode(ew, node, 0)
	return ew.err
}

// Page describes a complete HTML document around a rendered body.
type Page struct {
	Title string
	Lang  string
	Body  *Node
}

// RenderPage writes a complete HTML document.
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	ew := &errWriter{w: w}
	ew.printf("<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", EscapeAttr(lang))
	ew.printf("<meta charset=\"utf-8\">\n")
	if page.Title != "" {
		ew.printf("<title>%s</title>\n", EscapeHTML(page.Title))
	}
	ew.printf("</head>\n<body>\n")
	r.renderNode(ew, page.Body, 0)
	if !r.config.Pretty {
		ew.printf("\n")
	}
	ew.printf("</body>\n</html>\n")
	return ew.err
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (ew *errWriter) printf(format string, args ...any) {
	ew.write(fmt.Sprintf(format, args...))
}

func (r *Renderer) renderNode(w *errWriter, node *Node, depth int) {
	if node == nil {
		return
	}
	if node.IsText {
		w.write(EscapeHTML(node.Text))
		return
	}
	r.renderElement(w, node, depth)
}

func (r *Renderer) renderElement(w *errWriter, node *Node, depth int) {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.write("<")
	w.write(tag)
	r.renderAttributes(w, node)
	w.write(">")

	if node.Namespace == "" && IsVoidElement(tag) {
		if r.config.Pretty {
			w.write("\n")
		}
		return
	}

	hasBlockChildren := hasElementChild(node) && !flowsInline(tag)
	if r.config.Pretty && hasBlockChildren {
		w.write("\n")
	}
	for _, child := range node.Children {
		if r.config.Pretty && hasBlockChildren && child.IsText {
			r.writeIndent(w, depth+1)
			r.renderNode(w, child, depth+1)
			w.write("\n")
			continue
		}
		r.renderNode(w, child, depth+1)
	}
	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	w.printf("</%s>", tag)
	if r.config.Pretty {
		w.write("\n")
	}
}

// renderAttributes renders attributes in insertion order, then the inline
// style.
func (r *Renderer) renderAttributes(w *errWriter, node *Node) {
	if node.Namespace != "" && node.Tag == "svg" {
		if _, ok := node.Attr("xmlns"); !ok {
			w.printf(` xmlns="%s"`, EscapeAttr(node.Namespace))
		}
	}
	for _, a := range node.Attrs {
		if a.Name == "style" && len(node.Styles) > 0 {
			// Declared styles take precedence over a raw style attribute
			continue
		}
		switch {
		case a.Bool:
			w.write(" ")
			w.write(a.Name)
		case a.Value == "" && bareAttr(a.Name):
			w.write(" ")
			w.write(a.Name)
		default:
			w.printf(` %s="%s"`, a.Name, EscapeAttr(a.Value))
		}
	}
	if style := node.StyleAttr(); style != "" {
		w.printf(` style="%s"`, EscapeAttr(style))
	}
}

func hasElementChild(node *Node) bool {
	for _, c := range node.Children {
		if !c.IsText {
			return true
		}
	}
	return false
}

func (r *Renderer) writeIndent(w *errWriter, depth int) {
	w.write(strings.Repeat(r.config.Indent, depth))
}
