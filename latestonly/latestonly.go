// Package latestonly implements a decorator turning a numbered (but not
// necessarily ordered) transport into an ordered one that discards stale
// messages: each Receive returns the most recently numbered message
// available, skipping any older message that arrived before it. Useful when
// a caller only cares about the current state, not the history of updates
// (a multiplayer game's position updates, for instance).
//
// Grounded on original_source/mezzenger-utils/src/latest_only.rs's
// LatestOnly<T, E, N, Incoming, Outgoing> Stream wrapper, whose poll_next
// loops over the inner stream non-blockingly, tracking the highest message
// number seen so far, and returns the latest candidate once the inner
// stream goes Pending. Receive reproduces that drain-then-hold-latest
// behaviour using an already-cancelled context as a non-blocking poll (see
// the Concurrency section of the root package documentation for why that is
// a valid way to drain backlog on this module's transports).
package latestonly

import (
	"cmp"
	"context"
	"errors"
	"sync"

	"github.com/zduny/mezzenger"
)

// Numbered is implemented by messages carrying a comparable sequence
// number, such as numbered.Wrapper.
type Numbered[N cmp.Ordered] interface {
	SequenceNumber() N
}

// Unwrapper is implemented by messages that can discard non-payload
// metadata (their attached number) to recover the original message.
type Unwrapper[T any] interface {
	Unwrap() T
}

// NumberedUnwrapper is the message constraint required by New's unwrapping
// counterpart, NewUnwrapping.
type NumberedUnwrapper[N cmp.Ordered, U any] interface {
	Numbered[N]
	Unwrapper[U]
}

// Transport wraps an inner transport whose Incoming messages are Numbered,
// reordering receives so each Receive call returns the most recently
// numbered message, discarding any message numbered no higher than the
// last one returned. Message numbers are compared with a strict greater-
// than test; they are not assumed to wrap (unlike the numbered package's
// send-side counter), since a stale wrapped-around number would otherwise
// be indistinguishable from a genuinely newer one.
type Transport[N cmp.Ordered, Incoming Numbered[N], Outgoing any] struct {
	mezzenger.Ordered

	inner mezzenger.Transport[Incoming, Outgoing]

	mu         sync.Mutex
	lastNumber N
	haveLast   bool
}

var (
	_ mezzenger.Transport[wrapperStub, int] = (*Transport[int, wrapperStub, int])(nil)
)

type wrapperStub struct{ n int }

func (w wrapperStub) SequenceNumber() int { return w.n }

// New wraps inner, turning it into an ordered transport that drops stale
// messages.
func New[N cmp.Ordered, Incoming Numbered[N], Outgoing any](inner mezzenger.Transport[Incoming, Outgoing]) *Transport[N, Incoming, Outgoing] {
	return &Transport[N, Incoming, Outgoing]{inner: inner}
}

// Send forwards message to the inner transport unchanged.
func (t *Transport[N, Incoming, Outgoing]) Send(ctx context.Context, message Outgoing) error {
	return t.inner.Send(ctx, message)
}

// Close closes the inner transport.
func (t *Transport[N, Incoming, Outgoing]) Close(ctx context.Context) error {
	return t.inner.Close(ctx)
}

// IsClosed reports whether the inner transport has closed.
func (t *Transport[N, Incoming, Outgoing]) IsClosed() bool {
	return t.inner.IsClosed()
}

// Receive returns the most recently numbered message available. It first
// drains everything already queued on the inner transport without
// blocking, keeping only the highest-numbered candidate; if that drain
// turns up nothing newer than the last message returned, it then blocks on
// the inner transport, discarding any stale arrival, until a fresh message
// arrives, the carrier closes, or ctx is cancelled.
func (t *Transport[N, Incoming, Outgoing]) Receive(ctx context.Context) (Incoming, error) {
	var zero Incoming

	pollCtx, cancel := context.WithCancel(context.Background())
	cancel()

	var latest Incoming
	haveCandidate := false
	for {
		item, err := t.inner.Receive(pollCtx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return zero, err
		}
		if t.accept(item.SequenceNumber()) {
			latest = item
			haveCandidate = true
		}
	}
	if haveCandidate {
		return latest, nil
	}

	for {
		item, err := t.inner.Receive(ctx)
		if err != nil {
			return zero, err
		}
		if t.accept(item.SequenceNumber()) {
			return item, nil
		}
	}
}

func (t *Transport[N, Incoming, Outgoing]) accept(number N) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.haveLast && number <= t.lastNumber {
		return false
	}
	t.lastNumber = number
	t.haveLast = true
	return true
}

// Unwrapping wraps a Transport whose messages can be unwrapped, returning
// their unwrapped payload (discarding the attached number) from Receive.
// Constructed by NewUnwrapping or ToUnwrapping.
type Unwrapping[N cmp.Ordered, Incoming NumberedUnwrapper[N, U], U any, Outgoing any] struct {
	mezzenger.Ordered

	inner *Transport[N, Incoming, Outgoing]
}

var (
	_ mezzenger.Transport[int, int] = (*Unwrapping[int, wrapperUnwrapStub, int, int])(nil)
)

type wrapperUnwrapStub struct{ n, v int }

func (w wrapperUnwrapStub) SequenceNumber() int { return w.n }
func (w wrapperUnwrapStub) Unwrap() int         { return w.v }

// NewUnwrapping wraps inner directly into an unwrapping latestonly
// transport.
func NewUnwrapping[N cmp.Ordered, Incoming NumberedUnwrapper[N, U], U any, Outgoing any](inner mezzenger.Transport[Incoming, Outgoing]) *Unwrapping[N, Incoming, U, Outgoing] {
	return &Unwrapping[N, Incoming, U, Outgoing]{inner: New[N, Incoming, Outgoing](inner)}
}

// ToUnwrapping converts an existing Transport into its unwrapping
// counterpart, preserving the last-seen sequence number.
func ToUnwrapping[N cmp.Ordered, Incoming NumberedUnwrapper[N, U], U any, Outgoing any](t *Transport[N, Incoming, Outgoing]) *Unwrapping[N, Incoming, U, Outgoing] {
	return &Unwrapping[N, Incoming, U, Outgoing]{inner: t}
}

// Send forwards message to the inner transport unchanged.
func (u *Unwrapping[N, Incoming, U, Outgoing]) Send(ctx context.Context, message Outgoing) error {
	return u.inner.Send(ctx, message)
}

// Receive returns the unwrapped payload of the most recently numbered
// message available, per Transport.Receive's drain-then-hold-latest rule.
func (u *Unwrapping[N, Incoming, U, Outgoing]) Receive(ctx context.Context) (U, error) {
	item, err := u.inner.Receive(ctx)
	if err != nil {
		var zero U
		return zero, err
	}
	return item.Unwrap(), nil
}

// Close closes the inner transport.
func (u *Unwrapping[N, Incoming, U, Outgoing]) Close(ctx context.Context) error {
	return u.inner.Close(ctx)
}

// IsClosed reports whether the inner transport has closed.
func (u *Unwrapping[N, Incoming, U, Outgoing]) IsClosed() bool {
	return u.inner.IsClosed()
}
