package patch

import "fmt"

// ListKind identifies a ListPatch operation.
type ListKind uint8

const (
	// SpliceKind replaces Range with Items.
	SpliceKind ListKind = iota
	// PushKind appends Value.
	PushKind
	// PopKind removes the last item.
	PopKind
)

func (k ListKind) String() string {
	switch k {
	case SpliceKind:
		return "splice"
	case PushKind:
		return "push"
	case PopKind:
		return "pop"
	default:
		return "unknown"
	}
}

// ListPatch describes one edit to an ordered sequence.
type ListPatch[T any] struct {
	Kind  ListKind
	Range Range // SpliceKind
	Items []T   // SpliceKind replacement
	Value T     // PushKind
}

// Splice replaces the items in r with items.
func Splice[T any](r Range, items ...T) ListPatch[T] {
	return ListPatch[T]{Kind: SpliceKind, Range: r, Items: items}
}

// Push appends v.
func Push[T any](v T) ListPatch[T] {
	return ListPatch[T]{Kind: PushKind, Value: v}
}

// Pop removes the last item, if any.
func Pop[T any]() ListPatch[T] {
	return ListPatch[T]{Kind: PopKind}
}

// Insert places v at index i.
func Insert[T any](i int, v T) ListPatch[T] {
	return Splice(Span(i, i), v)
}

// Remove removes the item at index i.
func Remove[T any](i int) ListPatch[T] {
	return Splice[T](At(i))
}

// Replace swaps the item at index i for v.
func Replace[T any](i int, v T) ListPatch[T] {
	return Splice(At(i), v)
}

// Drain removes every item.
func Drain[T any]() ListPatch[T] {
	return Splice[T](Full())
}

// Set replaces every item with items.
func Set[T any](items ...T) ListPatch[T] {
	return Splice(Full(), items...)
}

func (p ListPatch[T]) String() string {
	switch p.Kind {
	case SpliceKind:
		return fmt.Sprintf("splice(%s, %d items)", p.Range, len(p.Items))
	case PushKind:
		return "push"
	case PopKind:
		return "pop"
	default:
		return "unknown"
	}
}

// ApplyList applies p to *seq and returns the removed items in order.
func ApplyList[T any](seq *[]T, p ListPatch[T]) []T {
	s := *seq
	switch p.Kind {
	case PushKind:
		*seq = append(s, p.Value)
		return nil
	case PopKind:
		if len(s) == 0 {
			return nil
		}
		last := s[len(s)-1]
		var zero T
		s[len(s)-1] = zero
		*seq = s[:len(s)-1]
		return []T{last}
	case SpliceKind:
		start, end := Resolve(p.Range, len(s))
		removed := make([]T, end-start)
		copy(removed, s[start:end])

		out := make([]T, 0, len(s)-len(removed)+len(p.Items))
		out = append(out, s[:start]...)
		out = append(out, p.Items...)
		out = append(out, s[end:]...)
		*seq = out
		return removed
	default:
		panic(fmt.Sprintf("patch: unknown list patch kind %d", p.Kind))
	}
}

// MapList converts the items carried by p with f.
func MapList[A, B any](p ListPatch[A], f func(A) B) ListPatch[B] {
	out := ListPatch[B]{Kind: p.Kind, Range: p.Range}
	switch p.Kind {
	case SpliceKind:
		out.Items = make([]B, len(p.Items))
		for i, v := range p.Items {
			out.Items[i] = f(v)
		}
	case PushKind:
		out.Value = f(p.Value)
	}
	return out
}

// TryMapList is MapList for conversions that can fail. The first error
// aborts the conversion.
func TryMapList[A, B any](p ListPatch[A], f func(A) (B, error)) (ListPatch[B], error) {
	out := ListPatch[B]{Kind: p.Kind, Range: p.Range}
	switch p.Kind {
	case SpliceKind:
		out.Items = make([]B, len(p.Items))
		for i, v := range p.Items {
			b, err := f(v)
			if err != nil {
				return ListPatch[B]{}, err
			}
			out.Items[i] = b
		}
	case PushKind:
		b, err := f(p.Value)
		if err != nil {
			return ListPatch[B]{}, err
		}
		out.Value = b
	}
	return out, nil
}

// NewItems returns the values p introduces into the sequence.
func (p ListPatch[T]) NewItems() []T {
	switch p.Kind {
	case SpliceKind:
		return p.Items
	case PushKind:
		return []T{p.Value}
	default:
		return nil
	}
}
