package mezzenger

import "context"

// Sender sends a single outgoing message, blocking until it has been
// accepted by the carrier (queued, written, or otherwise handed off) or ctx
// is cancelled. Once a carrier is closed, Send returns an error matching
// [Closed].
type Sender[Outgoing any] interface {
	Send(ctx context.Context, message Outgoing) error
}

// Receiver receives a single incoming message, parking the calling
// goroutine until one is available, the carrier closes, or ctx is
// cancelled. Receive is safe for concurrent use: multiple goroutines may
// call it on the same Receiver at once, and each queued message or error is
// delivered to exactly one caller.
//
// If ctx is cancelled after Receive has been woken to check the queue but
// before it has consumed an item, Receive hands the wakeup on to the next
// parked caller before returning ctx.Err(), so no item is stranded.
type Receiver[Incoming any] interface {
	Receive(ctx context.Context) (Incoming, error)
}

// Closer closes a carrier. Close is idempotent: closing an already-closed
// carrier is a no-op. IsClosed reports the current state without blocking.
type Closer interface {
	Close(ctx context.Context) error
	IsClosed() bool
}

// Transport is the full contract a carrier implements for a given
// Incoming/Outgoing message pair.
type Transport[Incoming, Outgoing any] interface {
	Sender[Outgoing]
	Receiver[Incoming]
	Closer
}

// Reliable is an embeddable zero-cost marker indicating a carrier never
// silently drops accepted messages. It is not compiler-enforced: embedding
// it is a statement of the embedder's contract, exactly as the Rust
// original's empty Reliable trait is documentation, not a guarantee the
// compiler checks.
type Reliable struct{}

// IsReliable satisfies [ReliableTransport].
func (Reliable) IsReliable() {}

// Ordered is an embeddable zero-cost marker indicating a carrier delivers
// messages in send order. Like [Reliable], it is implementor-asserted, not
// compiler-checked.
type Ordered struct{}

// IsOrdered satisfies [OrderedTransport].
func (Ordered) IsOrdered() {}

// ReliableTransport is implemented by any carrier embedding [Reliable].
type ReliableTransport interface {
	IsReliable()
}

// OrderedTransport is implemented by any carrier embedding [Ordered].
type OrderedTransport interface {
	IsOrdered()
}
