// Package numbered implements a decorator attaching a monotonically
// increasing sequence number to every sent message. Grounded on
// original_source/mezzenger-utils/src/numbered.rs's Numbered<N, T, E,
// Incoming, Outgoing> Sink/Stream wrapper.
//
// The Rust original needs five constructors (new, new_usize, new_u32,
// new_u64, new_u128) because num::traits::WrappingAdd has no single
// generic implementation spanning every integer width it supports. Go's
// built-in integer types all wrap on overflow by language-spec-guaranteed
// two's-complement arithmetic, so New alone covers every integer type; the
// per-width constructors are dropped as a Go-native simplification (see
// SPEC_FULL.md §3.4).
package numbered

import (
	"context"
	"sync"

	"github.com/zduny/mezzenger"
)

// Integer is the set of built-in integer types usable as a message number.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Wrapper attaches Number to a Wrapped message, the form in which Numbered
// transports send and receive.
type Wrapper[N Integer, T any] struct {
	Number  N
	Wrapped T
}

// Unwrap returns the wrapped message, discarding its number.
func (w Wrapper[N, T]) Unwrap() T {
	return w.Wrapped
}

// SequenceNumber returns the attached message number, satisfying the
// latestonly package's Numbered constraint.
func (w Wrapper[N, T]) SequenceNumber() N {
	return w.Number
}

// Transport wraps an inner transport carrying Wrapper values, attaching the
// next sequence number to every message handed to Send. The first sent
// message is numbered zero; each subsequent successful Send increments the
// counter by one, wrapping on overflow.
type Transport[N Integer, Incoming, Outgoing any] struct {
	inner mezzenger.Transport[Wrapper[N, Incoming], Wrapper[N, Outgoing]]

	mu            sync.Mutex
	currentNumber N
}

var (
	_ mezzenger.Transport[Wrapper[int, int], int] = (*Transport[int, int, int])(nil)
)

// New wraps inner, numbering sent messages starting from zero.
func New[N Integer, Incoming, Outgoing any](inner mezzenger.Transport[Wrapper[N, Incoming], Wrapper[N, Outgoing]]) *Transport[N, Incoming, Outgoing] {
	return &Transport[N, Incoming, Outgoing]{inner: inner}
}

// CurrentNumber returns the number that will be attached to the next sent
// message.
func (t *Transport[N, Incoming, Outgoing]) CurrentNumber() N {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentNumber
}

// Send attaches the next sequence number to message and forwards it to the
// inner transport. The counter only advances once the inner Send succeeds.
func (t *Transport[N, Incoming, Outgoing]) Send(ctx context.Context, message Outgoing) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	wrapped := Wrapper[N, Outgoing]{Number: t.currentNumber, Wrapped: message}
	if err := t.inner.Send(ctx, wrapped); err != nil {
		return err
	}
	t.currentNumber++
	return nil
}

// Receive returns the next numbered message from the inner transport.
func (t *Transport[N, Incoming, Outgoing]) Receive(ctx context.Context) (Wrapper[N, Incoming], error) {
	return t.inner.Receive(ctx)
}

// Close closes the inner transport.
func (t *Transport[N, Incoming, Outgoing]) Close(ctx context.Context) error {
	return t.inner.Close(ctx)
}

// IsClosed reports whether the inner transport has closed.
func (t *Transport[N, Incoming, Outgoing]) IsClosed() bool {
	return t.inner.IsClosed()
}
