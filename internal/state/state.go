// Package state implements the shared receive state and weak-reference
// wakeup registry every carrier in this module is built on: a FIFO queue of
// pending results, a registry of parked receiver wakeups, and a monotonic
// closed flag, guarded by a single mutex.
//
// This is the Go rendition of mezzenger-common's sync.rs: a Weak<Mutex<..>>
// registry there becomes a weak.Pointer[waker] registry here (grounded on
// the event loop package's registry.go, which uses the same weak package to
// let a promise's waiters become garbage-collection-eligible once abandoned
// without the registry itself pinning them in memory). Unlike registry.go's
// ring-buffer-and-scavenge strategy (needed there because a promise may
// never settle, so dead entries can accumulate indefinitely without ever
// being scanned), this registry needs no separate scavenger: every push or
// close scans from the front until it finds a live waker, which is exactly
// how mezzenger-common's wake_next self-cleans, and is sufficient because
// every push/close is itself a scan opportunity.
package state

import (
	"context"
	"sync"
	"weak"

	"github.com/zduny/mezzenger"
)

// Result is a single queued receive outcome: either a decoded message, or a
// carrier-specific error to be surfaced wrapped by mezzenger.Other.
type Result[Incoming any] struct {
	Message Incoming
	Err     error
}

// waker is the parking primitive a blocked Receive call registers. It is
// held strongly only by that call's stack frame; once Receive returns, the
// waker becomes unreachable, and once it has been collected weak.Pointer.Value
// on any leftover registry entry pointing to it returns nil. A call cancelled
// while parked removes its own entry, so an uncollected waker never absorbs
// a later wakeup.
type waker struct {
	mu    sync.Mutex
	ch    chan struct{}
	woken bool
}

// State is the shared receive state for one carrier direction. It is safe
// for concurrent use by any number of producer and receiver goroutines.
type State[Incoming any] struct {
	mu     sync.Mutex
	queue  []Result[Incoming]
	wakers []weak.Pointer[waker]
	closed bool
}

// New returns an empty, open State.
func New[Incoming any]() *State[Incoming] {
	return &State[Incoming]{}
}

// PushMessage enqueues a successfully decoded message and wakes the next
// parked receiver, if any.
func (s *State[Incoming]) PushMessage(m Incoming) {
	s.mu.Lock()
	s.queue = append(s.queue, Result[Incoming]{Message: m})
	s.mu.Unlock()
	s.WakeNext()
}

// PushError enqueues a carrier-specific error and wakes the next parked
// receiver, if any. It does not close the state: callers decide separately
// whether an error is terminal.
func (s *State[Incoming]) PushError(err error) {
	s.mu.Lock()
	s.queue = append(s.queue, Result[Incoming]{Err: err})
	s.mu.Unlock()
	s.WakeNext()
}

// Close marks the state closed. It is idempotent; only the first call wakes
// a parked receiver. A receiver that returns Closed wakes the next parked
// one in turn, so every receiver parked at the time of Close returns once
// the queue has drained.
func (s *State[Incoming]) Close() {
	s.mu.Lock()
	already := s.closed
	s.closed = true
	s.mu.Unlock()
	if !already {
		s.WakeNext()
	}
}

// IsClosed reports whether Close has been called.
func (s *State[Incoming]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// WakeNext wakes the next still-live parked receiver, if any, scanning and
// discarding dead registry entries (parked calls that have since returned
// by some other path) as it goes. At most one receiver is woken per call,
// matching the single-wakeup-per-enqueued-item contract: a push or close
// hands off to exactly one parked caller, never a broadcast to all.
func (s *State[Incoming]) WakeNext() {
	for {
		s.mu.Lock()
		if len(s.wakers) == 0 {
			s.mu.Unlock()
			return
		}
		wp := s.wakers[0]
		s.wakers = s.wakers[1:]
		w := wp.Value()
		if w == nil {
			s.mu.Unlock()
			continue
		}
		s.mu.Unlock()

		w.mu.Lock()
		w.woken = true
		w.mu.Unlock()
		select {
		case w.ch <- struct{}{}:
		default:
		}
		return
	}
}

// Receive blocks until a message or error is available, the state closes,
// or ctx is cancelled. If ctx is cancelled after this call was woken to
// recheck the queue but before it consumed anything, it re-invokes WakeNext
// before returning so the pending wakeup is not stranded.
func (s *State[Incoming]) Receive(ctx context.Context) (Incoming, error) {
	var zero Incoming
	var w *waker
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			item := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			if item.Err != nil {
				return zero, mezzenger.Other(item.Err)
			}
			return item.Message, nil
		}
		if s.closed {
			s.mu.Unlock()
			// Pass the close wakeup on, so every parked receiver observes it.
			s.WakeNext()
			return zero, mezzenger.Closed
		}
		if err := ctx.Err(); err != nil {
			s.mu.Unlock()
			return zero, err
		}
		if w == nil {
			w = &waker{ch: make(chan struct{}, 1)}
		} else {
			w.mu.Lock()
			w.woken = false
			w.mu.Unlock()
		}
		s.wakers = append(s.wakers, weak.Make(w))
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			// If this call's entry is no longer registered, WakeNext popped
			// it and the wakeup was meant for this call: hand it on.
			// Otherwise remove the entry, so a later push does not spend its
			// single wakeup on a call that has already returned.
			s.mu.Lock()
			woken := true
			for i, wp := range s.wakers {
				if wp.Value() == w {
					s.wakers = append(s.wakers[:i], s.wakers[i+1:]...)
					woken = false
					break
				}
			}
			s.mu.Unlock()
			if woken {
				s.WakeNext()
			}
			return zero, ctx.Err()
		case <-w.ch:
		}
	}
}
