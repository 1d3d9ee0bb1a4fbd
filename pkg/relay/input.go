package relay

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/stream"
)

// DefaultCapacity is the buffer size of inputs and outputs.
const DefaultCapacity = 1

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Input feeds values to exactly one consumer. Any number of goroutines may
// set it; the first caller of Stream gets the values.
type Input[T any] struct {
	tx *channel.Sender[T]

	mu sync.Mutex
	rx *channel.Receiver[T]
}

var _ channel.Sink[int] = (*Input[int])(nil)

// NewInput returns an empty input.
func NewInput[T any]() *Input[T] {
	tx, rx := channel.New[T](DefaultCapacity)
	return &Input[T]{tx: tx, rx: rx}
}

// NewInputWith returns an input that already holds v.
func NewInputWith[T any](v T) *Input[T] {
	in := NewInput[T]()
	// A new channel always has room for one value
	_ = in.tx.TrySend(v)
	return in
}

// Set delivers v, waiting for the consumer to make room.
func (in *Input[T]) Set(ctx context.Context, v T) error {
	if err := in.tx.Send(ctx, v); err != nil {
		return fmt.Errorf("relay: set input of %s: %w", typeName[T](), err)
	}
	return nil
}

// TrySet delivers v without waiting.
func (in *Input[T]) TrySet(v T) error {
	if err := in.tx.TrySend(v); err != nil {
		return fmt.Errorf("relay: try set input of %s: %w", typeName[T](), err)
	}
	return nil
}

// Send implements channel.Sink.
func (in *Input[T]) Send(ctx context.Context, v T) error { return in.tx.Send(ctx, v) }

// TrySend implements channel.Sink.
func (in *Input[T]) TrySend(v T) error { return in.tx.TrySend(v) }

// Stream hands out the consuming end. Only the first call gets it.
func (in *Input[T]) Stream() (stream.Stream[T], bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.rx == nil {
		return nil, false
	}
	rx := in.rx
	in.rx = nil
	return rx, true
}

// Close ends the input. A consumer sees the end once it has read every
// queued value.
func (in *Input[T]) Close() {
	in.tx.Close()
}

// FanInput feeds every value to every consumer that exists when it is sent.
type FanInput[T any] struct {
	ch *channel.Channel[T]
	tx *channel.BroadcastSender[T]
}

var _ channel.Sink[int] = (*FanInput[int])(nil)

// NewFanInput returns a broadcast input.
func NewFanInput[T any]() *FanInput[T] {
	ch := channel.NewBroadcast[T](DefaultCapacity)
	return &FanInput[T]{ch: ch, tx: ch.Sender()}
}

// Set delivers v to every consumer, waiting for the slowest one.
func (f *FanInput[T]) Set(ctx context.Context, v T) error {
	if err := f.tx.Send(ctx, v); err != nil {
		return fmt.Errorf("relay: set fan input of %s: %w", typeName[T](), err)
	}
	return nil
}

// TrySet delivers v without waiting.
func (f *FanInput[T]) TrySet(v T) error {
	if err := f.tx.TrySend(v); err != nil {
		return fmt.Errorf("relay: try set fan input of %s: %w", typeName[T](), err)
	}
	return nil
}

func (f *FanInput[T]) Send(ctx context.Context, v T) error { return f.tx.Send(ctx, v) }

func (f *FanInput[T]) TrySend(v T) error { return f.tx.TrySend(v) }

// Stream returns a new consumer that sees values sent from now on.
func (f *FanInput[T]) Stream() stream.Stream[T] {
	return f.ch.Receiver()
}

// Close ends the input for every consumer.
func (f *FanInput[T]) Close() {
	f.tx.Close()
	f.ch.Close()
}

// Output is where a component publishes events. It never blocks senders:
// when a consumer lags, the oldest value is dropped.
type Output[T any] struct {
	ch *channel.Channel[T]
	tx *channel.BroadcastSender[T]
}

var _ channel.Sink[int] = (*Output[int])(nil)

// NewOutput returns an overflowing broadcast output.
func NewOutput[T any]() *Output[T] {
	ch := channel.NewBroadcast[T](DefaultCapacity)
	ch.SetOverflow(true)
	return &Output[T]{ch: ch, tx: ch.Sender()}
}

func (o *Output[T]) Send(ctx context.Context, v T) error { return o.tx.Send(ctx, v) }

func (o *Output[T]) TrySend(v T) error { return o.tx.TrySend(v) }

// Sink returns o's sending end, for example to use as an event sink.
func (o *Output[T]) Sink() channel.Sink[T] {
	return o.tx
}

// Stream returns a consumer that sees values sent from now on.
func (o *Output[T]) Stream() stream.Stream[T] {
	return o.ch.Receiver()
}

// Get waits for the next value.
func (o *Output[T]) Get(ctx context.Context) (T, bool) {
	rx := o.ch.Receiver()
	defer rx.Close()
	return rx.Next(ctx)
}

// Close ends the output for every consumer.
func (o *Output[T]) Close() {
	o.tx.Close()
	o.ch.Close()
}
