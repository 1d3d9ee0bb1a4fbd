package render

// IsVoidElement reports whether tag is an HTML void element: it is written
// without children or a closing tag. Namespaced (SVG, MathML) elements are
// never void; callers check the namespace first.
func IsVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// flowsInline reports whether pretty output keeps tag's children on the
// opening tag's line.
func flowsInline(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data",
		"dfn", "em", "i", "kbd", "label", "mark", "q", "s", "samp",
		"small", "span", "strong", "sub", "sup", "time", "u", "var", "wbr":
		return true
	}
	return false
}

// bareAttr reports whether an empty string value for name is rendered as
// the attribute name alone.
func bareAttr(name string) bool {
	switch name {
	case "allowfullscreen", "async", "autofocus", "autoplay", "checked",
		"controls", "default", "defer", "disabled", "formnovalidate",
		"hidden", "inert", "ismap", "loop", "multiple", "muted", "nomodule",
		"novalidate", "open", "playsinline", "readonly", "required",
		"reversed", "selected":
		return true
	}
	return false
}
