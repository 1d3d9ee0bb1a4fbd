// Package errors provides the coded, structured errors returned by view
// building and hydration.
//
// Each error has a unique code (e.g., "E041") that maps to a category, a
// short message, a longer explanation and, where useful, a hint. Errors are
// matched by code, so a registered sentinel works with errors.Is:
//
//	var ErrMissingID = errors.New("E041")
//
//	err := errors.New("E041").WithPath("div#app", "button")
//	stderrors.Is(err, ErrMissingID) // true
//
// # Error Categories
//
//   - build: materializing a builder against a backend
//   - hydration: binding a builder to nodes that already exist
//   - config, cli: the rview command
//
// # Formatting
//
// Format renders an error for the terminal, with the node path drawn as a
// tree:
//
//	ERROR E042: Missing child
//
//	  │ div#app
//	    │ ul
//	      → li[3]
//
//	  The parent element has fewer non-whitespace children than the
//	  builder declares.
package errors
