// Package channel provides the queues that move values between application
// logic and live views.
//
// Two kinds of channel are available:
//
//   - Point-to-point (New, NewUnbounded): each value is received by exactly
//     one Receiver.
//   - Broadcast (NewBroadcast, Broadcast): every active tap receives every
//     value sent after the tap was created.
//
// Handles are reference counted. Clone hands out another handle and Close
// releases one. Once every Receiver is closed, sends fail with ErrClosed.
// Once every Sender is closed, receivers drain what is queued and then see
// the end of the stream.
//
// ErrFull from TrySend is recoverable; wrap a sender in a PendingSink to
// queue values until they can be flushed. ErrClosed is terminal.
package channel
