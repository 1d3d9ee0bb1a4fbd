// Package patch defines the edits that keep ordered children and keyed
// attributes of a live view in sync with application state.
//
// ListPatch has three operations (Splice, Push and Pop); insert, remove and
// replace are single-item splices. HashPatch inserts or removes one key.
//
//	items := []string{"a", "b", "c"}
//	removed := patch.ApplyList(&items, patch.Splice(patch.Span(1, 2), "x"))
//	// items == [a x c], removed == [b]
//
// Ranges clamp to the current length, so an open end always means "to the
// end of the sequence as it is now".
package patch
