package view

import (
	rerrors "github.com/vango-dev/rview/internal/errors"
)

// Errors are matched by code, so errors.Is(err, ErrMissingID) holds for any
// missing-id failure regardless of its path or detail.
var (
	// ErrConsumed is returned when a builder is built a second time.
	ErrConsumed = rerrors.New("E020")
	// ErrBackend wraps a backend failure during build.
	ErrBackend = rerrors.New("E021")
	// ErrDisposed is returned for operations on a disposed view.
	ErrDisposed = rerrors.New("E022")

	// ErrNoHydrationOption means the node has neither an id nor a parent.
	ErrNoHydrationOption = rerrors.New("E040")
	// ErrMissingID means no element carries the declared id.
	ErrMissingID = rerrors.New("E041")
	// ErrMissingChild means the parent has too few children.
	ErrMissingChild = rerrors.New("E042")
	// ErrTypeConversion means the existing node has the wrong kind or tag.
	ErrTypeConversion = rerrors.New("E043")
)

// IsHydrationError reports whether err is one of the hydration lookup
// failures, which leave the backend untouched.
func IsHydrationError(err error) bool {
	switch rerrors.Code(err) {
	case "E040", "E041", "E042", "E043":
		return true
	}
	return false
}
