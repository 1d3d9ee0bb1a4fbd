package patch

import "fmt"

// The helpers below edit a slice through ApplyList and check that the splice
// removed exactly as many items as the operation implies. A mismatch means
// the index was out of range and panics.

// InsertAt inserts v at index i. i must be within [0, len].
func InsertAt[T any](seq *[]T, i int, v T) {
	if i < 0 || i > len(*seq) {
		panic(fmt.Sprintf("patch: insert index %d out of range [0, %d]", i, len(*seq)))
	}
	removed := ApplyList(seq, Insert(i, v))
	mustRemove("InsertAt", removed, 0)
}

// RemoveAt removes and returns the item at index i. It reports false when
// there is no item at i.
func RemoveAt[T any](seq *[]T, i int) (T, bool) {
	removed := ApplyList(seq, Remove[T](i))
	if len(removed) == 0 {
		var zero T
		return zero, false
	}
	mustRemove("RemoveAt", removed, 1)
	return removed[0], true
}

// SwapAt replaces the item at index i with v and returns the old item.
// i must be within [0, len).
func SwapAt[T any](seq *[]T, i int, v T) T {
	removed := ApplyList(seq, Replace(i, v))
	mustRemove("SwapAt", removed, 1)
	return removed[0]
}

// PushItem appends v.
func PushItem[T any](seq *[]T, v T) {
	mustRemove("PushItem", ApplyList(seq, Push(v)), 0)
}

// PopItem removes and returns the last item.
func PopItem[T any](seq *[]T) (T, bool) {
	removed := ApplyList(seq, Pop[T]())
	if len(removed) == 0 {
		var zero T
		return zero, false
	}
	mustRemove("PopItem", removed, 1)
	return removed[0], true
}

// SpliceItems replaces r with items and returns what was removed.
func SpliceItems[T any](seq *[]T, r Range, items ...T) []T {
	return ApplyList(seq, Splice(r, items...))
}

func mustRemove[T any](op string, removed []T, want int) {
	if len(removed) != want {
		panic(fmt.Sprintf("patch: %s removed %d items, expected %d", op, len(removed), want))
	}
}
