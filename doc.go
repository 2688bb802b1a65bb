// Package mezzenger defines a uniform message-passing transport contract over
// heterogeneous carriers: in-memory loopback and duplex pairs, length-prefixed
// streams, datagrams, WebSocket connections and worker/postMessage-style
// channels.
//
// # Contract
//
// Every carrier implements [Sender], [Receiver] and [Closer] for some
// Incoming/Outgoing message pair. [Receive] on a closed carrier whose queue
// has drained returns an error matching [Closed] via [errors.Is]; any other
// carrier-specific failure is delivered wrapped by [Other] so the concrete
// cause remains recoverable via [errors.As].
//
// # Concurrency
//
// [Receiver.Receive] is safe to call concurrently from multiple goroutines
// and is cancellation-safe: a call abandoned via context cancellation after
// being woken but before consuming a queued item hands the wakeup to the next
// parked receiver, so no item is stranded. See the internal/state package for
// the shared queue and weak-reference wakeup registry every carrier is built
// on.
//
// A carrier's already-queued items always take priority over an already-done
// ctx: Receive checks for a pending item (and for carrier closure) before it
// checks ctx.Err(). Calling Receive with an already-cancelled context is
// therefore a valid non-blocking poll of the current queue - returning a
// queued item if one exists, Closed if the carrier is done, or the
// cancellation error otherwise - a contract the latestonly decorator relies
// on to drain backlog without blocking.
//
// # Capabilities
//
// [Reliable] and [Ordered] are zero-cost marker capabilities a carrier
// embeds to advertise delivery guarantees; like their Rust counterparts they
// are not compiler-enforced, only documentation of the implementor's
// contract.
//
// # Decorators
//
// The numbered and latestonly packages wrap any [Transport] to attach
// sequence numbers or collapse backlog to the most recent message,
// respectively. The decorator package holds placeholder types for
// Inspector, Split/Merge, Orderer and Reliabler decorators that are not yet
// implemented.
package mezzenger
