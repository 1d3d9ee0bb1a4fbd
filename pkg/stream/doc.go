// Package stream provides lazy, single-consumer value sequences.
//
// A Stream is read with Next, which blocks until a value is available, or
// with TryNext, which never blocks. The non-blocking form is what lets the
// view engine apply every value that is already known before a view is
// handed back to the caller:
//
//	items, done := stream.Exhaust(st)
//
// # Now and Later
//
// View declarations accept streams. A plain value is a stream that yields
// once and then stays idle:
//
//	stream.Now("hello")
//	stream.Later(rx)
//	stream.NowAndLater("0", rx)
//
// # Adaptors
//
// Map, FilterMap and FlatMap transform item types without new channels.
// FromChan, Convert and Fanout bridge plain Go channels.
package stream
