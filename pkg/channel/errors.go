package channel

import "errors"

var (
	// ErrClosed is returned when every handle on the other side is closed.
	// It is terminal for that endpoint pair.
	ErrClosed = errors.New("channel: closed")

	// ErrFull is returned by non-blocking sends when the queue has no room.
	// Callers are expected to buffer and retry.
	ErrFull = errors.New("channel: full")
)
