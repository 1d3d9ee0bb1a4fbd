package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyHash(t *testing.T) {
	m := map[string]string{}

	if _, ok := ApplyHash(m, Put("class", "a")); ok {
		t.Error("first insert should have no previous value")
	}
	prev, ok := ApplyHash(m, Put("class", "b"))
	if !ok || prev != "a" {
		t.Errorf("expected previous a, got %q %v", prev, ok)
	}
	if m["class"] != "b" {
		t.Errorf("last write should win, got %q", m["class"])
	}

	prev, ok = ApplyHash(m, Delete[string, string]("class"))
	if !ok || prev != "b" {
		t.Errorf("expected removed b, got %q %v", prev, ok)
	}
	if _, ok := ApplyHash(m, Delete[string, string]("class")); ok {
		t.Error("removing a missing key should report nothing")
	}
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestApplyAssoc(t *testing.T) {
	list := []Pair[string, int]{{"a", 1}, {"b", 2}, {"a", 3}}

	// First match wins
	prev, ok := ApplyAssoc(&list, Put("a", 10))
	if !ok || prev != 1 {
		t.Errorf("expected previous 1, got %d %v", prev, ok)
	}
	if _, ok := ApplyAssoc(&list, Put("c", 4)); ok {
		t.Error("new key should have no previous value")
	}
	prev, ok = ApplyAssoc(&list, Delete[string, int]("a"))
	if !ok || prev != 10 {
		t.Errorf("expected removed 10, got %d %v", prev, ok)
	}

	want := []Pair[string, int]{{"b", 2}, {"a", 3}, {"c", 4}}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestHashPatchString(t *testing.T) {
	if got := Put("k", 1).String(); got != "insert(k)" {
		t.Errorf("got %q", got)
	}
	if got := Delete[string, int]("k").String(); got != "remove(k)" {
		t.Errorf("got %q", got)
	}
}
