package patch

import "fmt"

// HashKind identifies a HashPatch operation.
type HashKind uint8

const (
	// InsertKind sets Key to Value.
	InsertKind HashKind = iota
	// RemoveKind deletes Key.
	RemoveKind
)

func (k HashKind) String() string {
	switch k {
	case InsertKind:
		return "insert"
	case RemoveKind:
		return "remove"
	default:
		return "unknown"
	}
}

// HashPatch describes one edit to a keyed collection.
type HashPatch[K comparable, V any] struct {
	Kind  HashKind
	Key   K
	Value V
}

// Put returns an insert patch.
func Put[K comparable, V any](k K, v V) HashPatch[K, V] {
	return HashPatch[K, V]{Kind: InsertKind, Key: k, Value: v}
}

// Delete returns a remove patch.
func Delete[K comparable, V any](k K) HashPatch[K, V] {
	return HashPatch[K, V]{Kind: RemoveKind, Key: k}
}

func (p HashPatch[K, V]) String() string {
	switch p.Kind {
	case InsertKind:
		return fmt.Sprintf("insert(%v)", p.Key)
	case RemoveKind:
		return fmt.Sprintf("remove(%v)", p.Key)
	default:
		return "unknown"
	}
}

// ApplyHash applies p to m. It returns the value previously stored under the
// key and whether there was one.
func ApplyHash[K comparable, V any](m map[K]V, p HashPatch[K, V]) (V, bool) {
	prev, ok := m[p.Key]
	switch p.Kind {
	case InsertKind:
		m[p.Key] = p.Value
	case RemoveKind:
		delete(m, p.Key)
	default:
		panic(fmt.Sprintf("patch: unknown hash patch kind %d", p.Kind))
	}
	return prev, ok
}

// Pair is one entry of an association list.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// ApplyAssoc applies p to an ordered association list. Only the first entry
// with a matching key is considered; inserting a new key appends it.
func ApplyAssoc[K comparable, V any](list *[]Pair[K, V], p HashPatch[K, V]) (V, bool) {
	var zero V
	s := *list
	idx := -1
	for i := range s {
		if s[i].Key == p.Key {
			idx = i
			break
		}
	}

	switch p.Kind {
	case InsertKind:
		if idx < 0 {
			*list = append(s, Pair[K, V]{Key: p.Key, Value: p.Value})
			return zero, false
		}
		prev := s[idx].Value
		s[idx].Value = p.Value
		return prev, true
	case RemoveKind:
		if idx < 0 {
			return zero, false
		}
		prev := s[idx].Value
		*list = append(s[:idx:idx], s[idx+1:]...)
		return prev, true
	default:
		panic(fmt.Sprintf("patch: unknown hash patch kind %d", p.Kind))
	}
}
