// Package loopback implements the in-memory loopback carrier: messages sent
// into a Transport are the same messages received from it, in send order.
// Grounded on original_source/mezzenger-loopback/src/sync.rs.
package loopback

import (
	"context"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/internal/state"
)

// Transport is an in-memory loopback carrier for Message. It is reliable
// and ordered: every sent message is queued and delivered in send order.
type Transport[Message any] struct {
	mezzenger.Reliable
	mezzenger.Ordered

	state *state.State[Message]
}

var (
	_ mezzenger.Transport[int, int] = (*Transport[int])(nil)
)

// New returns an open loopback Transport.
func New[Message any]() *Transport[Message] {
	return &Transport[Message]{state: state.New[Message]()}
}

// Send queues message for immediate delivery to Receive. It fails with an
// error matching mezzenger.Closed once the transport has been closed.
func (t *Transport[Message]) Send(_ context.Context, message Message) error {
	if t.state.IsClosed() {
		return mezzenger.Closed
	}
	t.state.PushMessage(message)
	return nil
}

// Receive returns the next queued message, parking until one arrives, the
// transport closes, or ctx is cancelled.
func (t *Transport[Message]) Receive(ctx context.Context) (Message, error) {
	return t.state.Receive(ctx)
}

// Close closes the transport. Any messages already queued are still
// delivered to Receive before it starts reporting mezzenger.Closed.
func (t *Transport[Message]) Close(_ context.Context) error {
	t.state.Close()
	return nil
}

// IsClosed reports whether Close has been called.
func (t *Transport[Message]) IsClosed() bool {
	return t.state.IsClosed()
}
