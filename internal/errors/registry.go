package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Build Errors (E020-E039)
	// ============================================

	"E020": {
		Category:   CategoryBuild,
		Message:    "Builder already consumed",
		Detail:     "A builder owns single-consumer streams and can be materialized only once.",
		Suggestion: "Create a new builder for every view you build.",
	},
	"E021": {
		Category: CategoryBuild,
		Message:  "Backend operation failed",
		Detail:   "The backend rejected a node creation or mutation while the view was being built. Everything created so far has been disposed.",
	},
	"E022": {
		Category: CategoryBuild,
		Message:  "View disposed",
		Detail:   "The operation targets a view that has already been disposed.",
	},

	// ============================================
	// Hydration Errors (E040-E059)
	// ============================================

	"E040": {
		Category:   CategoryHydration,
		Message:    "No hydration option",
		Detail:     "The node declares no id and has no parent to index into, so there is nothing to hydrate it from.",
		Suggestion: "Give the root element an id attribute.",
	},
	"E041": {
		Category:   CategoryHydration,
		Message:    "Missing element id",
		Detail:     "No element in the document carries the id the builder declares.",
		Suggestion: "Render the server output from the same builder that is being hydrated.",
	},
	"E042": {
		Category: CategoryHydration,
		Message:  "Missing child",
		Detail:   "The parent element has fewer non-whitespace children than the builder declares.",
	},
	"E043": {
		Category: CategoryHydration,
		Message:  "Type conversion failed",
		Detail:   "The existing node is not the kind of node the builder declares (element versus text, or a different tag).",
	},

	// ============================================
	// Config and CLI Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value could not be parsed.",
	},
	"E061": {
		Category:   CategoryCLI,
		Message:    "Unknown example",
		Suggestion: "Run 'rview examples' to list the available examples.",
	},
	"E062": {
		Category:   CategoryCLI,
		Message:    "Publish failed",
		Detail:     "The rendered markup could not be uploaded.",
		Suggestion: "Check the bucket name and that AWS credentials are set in the environment.",
	},
	"E063": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
