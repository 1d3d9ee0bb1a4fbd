package patch

import "fmt"

// BoundKind says how a range bound is interpreted.
type BoundKind uint8

const (
	// Unbounded extends the range to the start or end of the sequence.
	Unbounded BoundKind = iota
	// Included makes the bound index part of the range.
	Included
	// Excluded leaves the bound index out of the range.
	Excluded
)

// Bound is one end of a Range.
type Bound struct {
	Kind  BoundKind
	Index int
}

// Range selects a span of indices, using the same inclusive, exclusive and
// open vocabulary as a slice expression.
type Range struct {
	Start Bound
	End   Bound
}

// Span is the half-open range [start, end).
func Span(start, end int) Range {
	return Range{Start: Bound{Included, start}, End: Bound{Excluded, end}}
}

// Through is the closed range [start, end].
func Through(start, end int) Range {
	return Range{Start: Bound{Included, start}, End: Bound{Included, end}}
}

// From is the range [start, len).
func From(start int) Range {
	return Range{Start: Bound{Included, start}, End: Bound{Kind: Unbounded}}
}

// UpTo is the range [0, end).
func UpTo(end int) Range {
	return Range{Start: Bound{Kind: Unbounded}, End: Bound{Excluded, end}}
}

// Full covers the whole sequence.
func Full() Range {
	return Range{}
}

// At is the single-index range [i, i].
func At(i int) Range {
	return Through(i, i)
}

// Resolve turns r into concrete half-open indices for a sequence of length
// n. Bounds beyond n clamp to n, negative bounds clamp to zero, and a start
// past the end yields an empty range at start.
func Resolve(r Range, n int) (start, end int) {
	switch r.Start.Kind {
	case Included:
		start = r.Start.Index
	case Excluded:
		start = r.Start.Index + 1
	default:
		start = 0
	}
	switch r.End.Kind {
	case Included:
		end = r.End.Index + 1
	case Excluded:
		end = r.End.Index
	default:
		end = n
	}
	start = clamp(start, n)
	end = clamp(end, n)
	if end < start {
		end = start
	}
	return start, end
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func (r Range) String() string {
	var start string
	switch r.Start.Kind {
	case Included:
		start = fmt.Sprint(r.Start.Index)
	case Excluded:
		start = fmt.Sprintf("(%d", r.Start.Index)
	}
	var end string
	switch r.End.Kind {
	case Included:
		end = fmt.Sprintf("=%d", r.End.Index)
	case Excluded:
		end = fmt.Sprint(r.End.Index)
	}
	return start + ".." + end
}
