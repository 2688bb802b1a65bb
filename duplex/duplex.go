// Package duplex implements an in-memory duplex pair: two independently
// closable Transport endpoints connected so that one side's Send delivers
// to the other side's Receive. Grounded on
// original_source/mezzenger-channel/src/lib.rs, which builds the same pair
// on top of a pair of unbounded mpsc channels; here both directions are
// built on the same shared state.State primitive every other carrier uses,
// giving the pair identical cancellation-safety and wakeup-fairness
// properties without introducing a second queueing mechanism.
package duplex

import (
	"context"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/internal/state"
)

// Transport is one endpoint of a duplex pair, receiving In-typed messages
// and sending Out-typed messages to its peer.
type Transport[In, Out any] struct {
	mezzenger.Reliable
	mezzenger.Ordered

	recv *state.State[In]
	send *state.State[Out]
}

var (
	_ mezzenger.Transport[int, string] = (*Transport[int, string])(nil)
)

// New returns two connected endpoints: messages sent on left arrive on
// right's Receive, and vice versa. Closing one endpoint only closes that
// endpoint's send direction; the peer observes end-of-stream on that
// direction once its queue drains, but can still send on its own direction
// until it, too, is closed.
func New[A, B any]() (left *Transport[A, B], right *Transport[B, A]) {
	aToB := state.New[B]()
	bToA := state.New[A]()
	left = &Transport[A, B]{recv: bToA, send: aToB}
	right = &Transport[B, A]{recv: aToB, send: bToA}
	return left, right
}

// Send queues message for delivery to the peer's Receive. It fails with an
// error matching mezzenger.Closed once this endpoint's send direction has
// been closed.
func (t *Transport[In, Out]) Send(_ context.Context, message Out) error {
	if t.send.IsClosed() {
		return mezzenger.Closed
	}
	t.send.PushMessage(message)
	return nil
}

// Receive returns the next message sent by the peer, parking until one
// arrives, the peer closes its send direction, or ctx is cancelled.
func (t *Transport[In, Out]) Receive(ctx context.Context) (In, error) {
	return t.recv.Receive(ctx)
}

// Close closes this endpoint's send direction. The peer's Receive still
// drains any messages already queued before reporting mezzenger.Closed.
func (t *Transport[In, Out]) Close(_ context.Context) error {
	t.send.Close()
	return nil
}

// IsClosed reports whether this endpoint's send direction has been closed.
func (t *Transport[In, Out]) IsClosed() bool {
	return t.send.IsClosed()
}
