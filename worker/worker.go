// Package worker implements a postMessage/worker-style channel carrier over
// any message-oriented inner mezzenger.Transport carrying Envelope values
// (a duplex pair, a stream, or a WebSocket connection, for instance).
// Grounded on original_source/mezzenger-webworker/src/lib.rs, extended with
// the Open handshake documented in SPEC_FULL.md §3.2: Dial exchanges Open
// envelopes with the peer before the returned Transport is usable, mirroring
// the async Transport::new_in_worker(codec).await constructor used by
// original_source/mezzenger-tests/worker/src/lib.rs.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/internal/state"
	"github.com/zduny/mezzenger/mlog"
)

// Transport is a worker-style channel carrier for In/Out messages. It is
// reliable and ordered: a worker's message port, like a browser
// postMessage channel, delivers every accepted message exactly once and in
// send order.
type Transport[In, Out any] struct {
	mezzenger.Reliable
	mezzenger.Ordered

	inner  mezzenger.Transport[Envelope[In], Envelope[Out]]
	state  *state.State[In]
	logger mlog.Logger

	outbox    chan Out
	done      chan struct{}
	closeOnce sync.Once
	limiter   *catrate.Limiter
}

var (
	_ mezzenger.Transport[int, int] = (*Transport[int, int])(nil)
)

// Dial performs the Open handshake over inner - sending an Open envelope
// and waiting for the peer's - then returns a ready Transport with its
// background send and receive loops running. It fails if the handshake
// does not complete within the configured open timeout.
func Dial[In, Out any](ctx context.Context, inner mezzenger.Transport[Envelope[In], Envelope[Out]], opts ...Option) (*Transport[In, Out], error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	handshakeCtx := ctx
	if cfg.openTimeout > 0 {
		var cancel context.CancelFunc
		handshakeCtx, cancel = context.WithTimeout(ctx, cfg.openTimeout)
		defer cancel()
	}

	if err := inner.Send(handshakeCtx, Envelope[Out]{Kind: KindOpen}); err != nil {
		return nil, err
	}
	for {
		env, err := inner.Receive(handshakeCtx)
		if err != nil {
			return nil, err
		}
		if env.Kind == KindOpen {
			break
		}
	}

	t := &Transport[In, Out]{
		inner:   inner,
		state:   state.New[In](),
		logger:  cfg.logger,
		outbox:  make(chan Out, cfg.sendBuffer),
		done:    make(chan struct{}),
		limiter: catrate.NewLimiter(map[time.Duration]int{time.Second: 1}),
	}
	go t.receiveLoop()
	go t.sendLoop()
	return t, nil
}

// Send enqueues message for delivery and returns once it has been accepted
// onto the internal outbound queue, or ctx is cancelled. If the queue is
// momentarily full, Send logs a rate-limited warning (at most once per
// second, via go-catrate) before blocking, so a sustained backlog does not
// flood the log.
func (t *Transport[In, Out]) Send(ctx context.Context, message Out) error {
	if t.state.IsClosed() {
		return mezzenger.Closed
	}

	select {
	case t.outbox <- message:
		return nil
	default:
	}

	if _, ok := t.limiter.Allow("send-buffer-full"); ok {
		t.logger.Warning().Log("worker: outbound buffer full, blocking send")
	}

	select {
	case t.outbox <- message:
		return nil
	case <-t.done:
		return mezzenger.Closed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns the next message received from the peer, parking until
// one arrives, the peer closes, or ctx is cancelled.
func (t *Transport[In, Out]) Receive(ctx context.Context) (In, error) {
	return t.state.Receive(ctx)
}

// Close sends a Close envelope to the peer, then closes the inner
// transport and this Transport's receive state. It is idempotent.
func (t *Transport[In, Out]) Close(ctx context.Context) error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		_ = t.inner.Send(ctx, Envelope[Out]{Kind: KindClose})
		t.state.Close()
		err = t.inner.Close(ctx)
	})
	return err
}

// IsClosed reports whether the transport's receive state has closed.
func (t *Transport[In, Out]) IsClosed() bool {
	return t.state.IsClosed()
}

func (t *Transport[In, Out]) sendLoop() {
	for {
		select {
		case message := <-t.outbox:
			if err := t.inner.Send(context.Background(), Envelope[Out]{Kind: KindMessage, Message: message}); err != nil {
				return
			}
		case <-t.done:
			return
		}
	}
}

func (t *Transport[In, Out]) receiveLoop() {
	for {
		env, err := t.inner.Receive(context.Background())
		if err != nil {
			t.state.Close()
			return
		}
		switch env.Kind {
		case KindMessage:
			t.state.PushMessage(env.Message)
		case KindClose:
			t.state.Close()
			return
		case KindOpen:
			// A peer that re-sent Open after the handshake (e.g. a retry
			// from a misbehaving implementation) is ignored.
		}
	}
}
