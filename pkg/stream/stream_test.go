package stream

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPollString(t *testing.T) {
	tests := []struct {
		p    Poll
		want string
	}{
		{Pending, "Pending"},
		{Ready, "Ready"},
		{Done, "Done"},
		{Poll(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Poll(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestNowYieldsOnceThenIdles(t *testing.T) {
	st := Now("hello")
	if IsIdle(st) {
		t.Fatal("Now should not be idle before its value is taken")
	}

	items, done := Exhaust(st)
	if diff := cmp.Diff([]string{"hello"}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if !done {
		t.Error("Now should report idle after its value")
	}
	if _, p := st.TryNext(); p != Pending {
		t.Errorf("Now never completes, expected Pending, got %v", p)
	}
}

func TestNowNextBlocksAfterValue(t *testing.T) {
	st := Now(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if v, ok := st.Next(ctx); !ok || v != 1 {
		t.Fatalf("expected 1, got %d %v", v, ok)
	}
	if _, ok := st.Next(ctx); ok {
		t.Error("second Next should only return when ctx is done")
	}
}

func TestNowAndLater(t *testing.T) {
	st := NowAndLater[int](0, Iter(1, 2))
	items, done := Exhaust(st)
	if diff := cmp.Diff([]int{0, 1, 2}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if !done {
		t.Error("expected done after a finite tail")
	}
}

func TestNowAndLaterWithIdleTail(t *testing.T) {
	st := NowAndLater[string]("a", Never[string]())
	items, done := Exhaust(st)
	if diff := cmp.Diff([]string{"a"}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if !done {
		t.Error("a Now followed by Never is idle")
	}
}

func TestChainNext(t *testing.T) {
	st := Chain(Iter("a"), Iter("b", "c"))
	got := Take(context.Background(), st, 5)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestChainNextSkipsIdleHead(t *testing.T) {
	head := Now(1)
	head.TryNext()
	st := Chain(head, Iter(2))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if v, ok := st.Next(ctx); !ok || v != 2 {
		t.Errorf("expected 2, got %d %v", v, ok)
	}
}

func TestAdaptors(t *testing.T) {
	mapped := Map(Iter(1, 2, 3), strconv.Itoa)
	got, _ := Exhaust(mapped)
	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}

	odd := FilterMap(Iter(1, 2, 3, 4, 5), func(v int) (int, bool) { return v * v, v%2 == 1 })
	gotOdd, _ := Exhaust(odd)
	if diff := cmp.Diff([]int{1, 9, 25}, gotOdd); diff != "" {
		t.Errorf("FilterMap mismatch (-want +got):\n%s", diff)
	}

	flat := FlatMap(Iter(1, 0, 2), func(v int) []int {
		out := make([]int, v)
		for i := range out {
			out[i] = v
		}
		return out
	})
	gotFlat := Take(context.Background(), flat, 10)
	if diff := cmp.Diff([]int{1, 2, 2}, gotFlat); diff != "" {
		t.Errorf("FlatMap mismatch (-want +got):\n%s", diff)
	}
}

func TestMapKeepsIdle(t *testing.T) {
	st := Map(Now(1), func(v int) int { return v + 1 })
	items, done := Exhaust(st)
	if diff := cmp.Diff([]int{2}, items); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !done {
		t.Error("mapped Now should report idle")
	}
}

func TestFromChan(t *testing.T) {
	ch := make(chan int, 2)
	st := FromChan(ch)

	if _, p := st.TryNext(); p != Pending {
		t.Fatalf("expected Pending on empty channel, got %v", p)
	}
	ch <- 1
	if v, p := st.TryNext(); p != Ready || v != 1 {
		t.Fatalf("expected Ready 1, got %v %d", p, v)
	}
	close(ch)
	if _, p := st.TryNext(); p != Done {
		t.Errorf("expected Done on closed channel, got %v", p)
	}
}

func TestConvert(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	in := make(chan int)
	st := Convert(done, in, func(v int) string { return "#" + strconv.Itoa(v) })
	go func() {
		defer close(in)
		for i := 1; i <= 3; i++ {
			in <- i
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var got []string
	for v := range All(ctx, st) {
		got = append(got, v)
	}
	if diff := cmp.Diff([]string{"#1", "#2", "#3"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFanout(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	in := make(chan string)
	outs := Fanout(done, in, 2)
	if len(outs) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(outs))
	}

	go func() { in <- "x" }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	results := make(chan string, 2)
	for _, out := range outs {
		go func(st Stream[string]) {
			v, _ := st.Next(ctx)
			results <- v
		}(out)
	}
	for i := 0; i < 2; i++ {
		if v := <-results; v != "x" {
			t.Errorf("expected x, got %q", v)
		}
	}
}

func TestNeverIsIdle(t *testing.T) {
	st := Never[int]()
	items, done := Exhaust(st)
	if len(items) != 0 || !done {
		t.Errorf("expected no items and idle, got %v %v", items, done)
	}
}

func TestMerge(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	a := make(chan int, 2)
	b := make(chan int, 2)
	a <- 1
	a <- 2
	b <- 3
	close(a)
	close(b)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sum := 0
	for v := range All(ctx, Merge(done, a, b)) {
		sum += v
	}
	if sum != 6 {
		t.Errorf("expected every merged value, got sum %d", sum)
	}
}

// closeCount is a never-yielding stream that counts Close calls.
type closeCount struct {
	never[int]
	closed int
}

func (c *closeCount) Close() { c.closed++ }

func TestCloseForwardsThroughAdaptors(t *testing.T) {
	tests := []struct {
		name string
		wrap func(src Stream[int]) any
	}{
		{"map", func(src Stream[int]) any { return Map(src, strconv.Itoa) }},
		{"filter map", func(src Stream[int]) any {
			return FilterMap(src, func(v int) (int, bool) { return v, true })
		}},
		{"flat map", func(src Stream[int]) any {
			return FlatMap(src, func(v int) []int { return []int{v} })
		}},
		{"now and later", func(src Stream[int]) any { return NowAndLater(0, src) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &closeCount{}
			Close(tt.wrap(src))
			if src.closed != 1 {
				t.Errorf("source closed %d times, want 1", src.closed)
			}
		})
	}
}

func TestCloseIgnoresPlainStreams(t *testing.T) {
	Close(Now(1))
	Close(Iter(1, 2))
	Close(nil)
}
