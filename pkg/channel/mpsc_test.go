package channel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/rview/pkg/stream"
)

func TestSendReceiveOrder(t *testing.T) {
	tx, rx := NewUnbounded[int]()
	for i := 0; i < 5; i++ {
		if err := tx.TrySend(i); err != nil {
			t.Fatalf("TrySend(%d): %v", i, err)
		}
	}

	got, done := stream.Exhaust[int](rx)
	if done {
		t.Error("channel with a live sender should not be done")
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		t.Errorf("received values mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundedTrySendFull(t *testing.T) {
	tx, rx := New[string](1)
	defer rx.Close()

	if err := tx.TrySend("a"); err != nil {
		t.Fatalf("first TrySend: %v", err)
	}
	if err := tx.TrySend("b"); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}

	// Draining makes room again
	if v, p := rx.TryNext(); p != stream.Ready || v != "a" {
		t.Fatalf("expected Ready a, got %v %q", p, v)
	}
	if err := tx.TrySend("b"); err != nil {
		t.Errorf("TrySend after drain: %v", err)
	}
}

func TestZeroCapacityIsOne(t *testing.T) {
	tx, _ := New[int](0)
	if err := tx.TrySend(1); err != nil {
		t.Fatalf("expected room for one value, got %v", err)
	}
	if err := tx.TrySend(2); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
}

func TestSendWaitsForRoom(t *testing.T) {
	tx, rx := New[int](1)
	ctx := context.Background()

	if err := tx.Send(ctx, 1); err != nil {
		t.Fatal(err)
	}

	sent := make(chan error, 1)
	go func() { sent <- tx.Send(ctx, 2) }()

	select {
	case err := <-sent:
		t.Fatalf("Send returned early with %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	if v, ok := rx.Next(ctx); !ok || v != 1 {
		t.Fatalf("expected 1, got %d %v", v, ok)
	}
	if err := <-sent; err != nil {
		t.Fatalf("blocked Send: %v", err)
	}
	if v, ok := rx.Next(ctx); !ok || v != 2 {
		t.Errorf("expected 2, got %d %v", v, ok)
	}
}

func TestSendHonorsContext(t *testing.T) {
	tx, _ := New[int](1)
	_ = tx.TrySend(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := tx.Send(ctx, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestClosedSendersEndPendingReceive(t *testing.T) {
	tx, rx := New[int](4)
	tx2 := tx.Clone()

	result := make(chan bool, 1)
	go func() {
		_, ok := rx.Next(context.Background())
		result <- ok
	}()

	tx.Close()
	select {
	case <-result:
		t.Fatal("receive ended while a sender clone was still open")
	case <-time.After(20 * time.Millisecond):
	}

	tx2.Close()
	select {
	case ok := <-result:
		if ok {
			t.Error("expected end of stream")
		}
	case <-time.After(time.Second):
		t.Fatal("pending receive did not observe closed senders")
	}
}

func TestClosedSendersDrainQueuedValues(t *testing.T) {
	tx, rx := NewUnbounded[int]()
	_ = tx.TrySend(7)
	tx.Close()

	if v, p := rx.TryNext(); p != stream.Ready || v != 7 {
		t.Fatalf("expected queued 7, got %v %d", p, v)
	}
	if _, p := rx.TryNext(); p != stream.Done {
		t.Errorf("expected Done after drain, got %v", p)
	}
	if !rx.IsClosed() {
		t.Error("receiver should report closed")
	}
}

func TestClosedReceiversFailSend(t *testing.T) {
	tx, rx := New[int](2)
	rx2 := rx.Clone()

	rx.Close()
	if err := tx.TrySend(1); err != nil {
		t.Fatalf("one receiver clone is still open, got %v", err)
	}

	rx2.Close()
	if err := tx.TrySend(2); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if !tx.IsClosed() {
		t.Error("sender should report closed")
	}
	if tx.Len() != 0 {
		t.Errorf("queued values should be discarded, got %d", tx.Len())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	tx, rx := New[int](1)
	tx2 := tx.Clone()

	tx.Close()
	tx.Close()

	// The double close must not release tx2's reference
	if err := tx2.TrySend(1); err != nil {
		t.Fatalf("TrySend on open clone: %v", err)
	}
	if v, p := rx.TryNext(); p != stream.Ready || v != 1 {
		t.Errorf("expected Ready 1, got %v %d", p, v)
	}
	if err := tx.TrySend(1); !errors.Is(err, ErrClosed) {
		t.Errorf("closed handle should report ErrClosed, got %v", err)
	}
}

func TestCompetingReceivers(t *testing.T) {
	tx, rx := NewUnbounded[int]()
	rx2 := rx.Clone()

	const n = 100
	for i := 0; i < n; i++ {
		_ = tx.TrySend(i)
	}
	tx.Close()

	var mu sync.Mutex
	seen := make(map[int]int)
	var wg sync.WaitGroup
	for _, r := range []*Receiver[int]{rx, rx2} {
		wg.Add(1)
		go func(r *Receiver[int]) {
			defer wg.Done()
			for v := range stream.All[int](context.Background(), r) {
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}(r)
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d distinct values, got %d", n, len(seen))
	}
	for v, count := range seen {
		if count != 1 {
			t.Errorf("value %d observed %d times", v, count)
		}
	}
}
