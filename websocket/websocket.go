// Package websocket implements the WebSocket carrier over
// github.com/gorilla/websocket, re-grounded from
// original_source/mezzenger-websocket/src/native/{sender,receiver}.rs
// (which wrap tungstenite) since the teacher has no native WebSocket code
// of its own; gorilla/websocket is the concrete dependency, modelled on its
// use in other_examples/7ef50e98_nspcc-dev-neo-go__pkg-rpcclient-wsclient.go.go.
//
// Only binary frames carry messages: text, ping and pong frames are
// silently ignored, matching the original receiver's documented behavior.
// A close frame, or a reset without a closing handshake, ends the stream
// the same way the original's FusedStream termination does.
package websocket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	gorilla "github.com/gorilla/websocket"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/codec"
	"github.com/zduny/mezzenger/internal/state"
	"github.com/zduny/mezzenger/mlog"
)

// DecodeError wraps a codec decode failure for a single binary frame.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("websocket: failed to decode message: %s", e.Cause)
}
func (e *DecodeError) Unwrap() error { return e.Cause }

// EncodeError wraps a codec encode failure on Send.
type EncodeError struct {
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("websocket: failed to encode message: %s", e.Cause)
}
func (e *EncodeError) Unwrap() error { return e.Cause }

// IOError wraps a WebSocket-level failure that was not classified as a
// close.
type IOError struct {
	Cause error
}

func (e *IOError) Error() string { return fmt.Sprintf("websocket: %s", e.Cause) }
func (e *IOError) Unwrap() error { return e.Cause }

// Transport is a WebSocket carrier for Incoming/Outgoing messages. It is
// reliable and ordered, per WebSocket's own guarantees over its underlying
// TCP connection.
type Transport[Incoming, Outgoing any] struct {
	mezzenger.Reliable
	mezzenger.Ordered

	conn   *gorilla.Conn
	codec  codec.Codec[Incoming, Outgoing]
	logger mlog.Logger

	state  *state.State[Incoming]
	sendMu sync.Mutex
}

var (
	_ mezzenger.Transport[int, int] = (*Transport[int, int])(nil)
)

type options struct {
	logger mlog.Logger
}

// Option configures a Transport constructed by New.
type Option interface {
	applyWebsocket(*options) error
}

type optionFunc struct{ fn func(*options) error }

func (o *optionFunc) applyWebsocket(opts *options) error { return o.fn(opts) }

// WithLogger overrides the logger used for this Transport.
func WithLogger(l mlog.Logger) Option {
	return &optionFunc{func(opts *options) error {
		opts.logger = l
		return nil
	}}
}

func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyWebsocket(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = mlog.Default()
	}
	return cfg, nil
}

// New wraps an already-established *gorilla.Conn in a Transport and starts
// its background receive loop.
func New[Incoming, Outgoing any](conn *gorilla.Conn, c codec.Codec[Incoming, Outgoing], opts ...Option) (*Transport[Incoming, Outgoing], error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	t := &Transport[Incoming, Outgoing]{
		conn:   conn,
		codec:  c,
		logger: cfg.logger,
		state:  state.New[Incoming](),
	}
	go t.receiveLoop()

	// Best-effort safety net, never a substitute for an explicit Close: if
	// the Transport is garbage-collected while still open, release the
	// underlying connection so it doesn't leak.
	runtime.AddCleanup(t, closeOnGC[Incoming], cleanupArgs[Incoming]{conn: conn, state: t.state})

	return t, nil
}

type cleanupArgs[Incoming any] struct {
	conn  io.Closer
	state *state.State[Incoming]
}

func closeOnGC[Incoming any](c cleanupArgs[Incoming]) {
	if !c.state.IsClosed() {
		c.state.Close()
		_ = c.conn.Close()
	}
}

// Send encodes message and writes it as a single binary frame.
func (t *Transport[Incoming, Outgoing]) Send(_ context.Context, message Outgoing) error {
	if t.state.IsClosed() {
		return mezzenger.Closed
	}

	var payload bytes.Buffer
	if err := t.codec.Encode(&payload, message); err != nil {
		t.logger.Warning().Err(err).Log("websocket: failed to encode message")
		return mezzenger.Other(&EncodeError{Cause: err})
	}

	t.sendMu.Lock()
	err := t.conn.WriteMessage(gorilla.BinaryMessage, payload.Bytes())
	t.sendMu.Unlock()
	if err != nil {
		if isCloseError(err) {
			return mezzenger.Closed
		}
		t.logger.Warning().Err(err).Log("websocket: write failed")
		return mezzenger.Other(&IOError{Cause: err})
	}
	return nil
}

// Receive returns the next decoded binary frame, parking until one
// arrives, the connection closes, or ctx is cancelled.
func (t *Transport[Incoming, Outgoing]) Receive(ctx context.Context) (Incoming, error) {
	return t.state.Receive(ctx)
}

// Close closes the underlying WebSocket connection and the transport's
// receive state.
func (t *Transport[Incoming, Outgoing]) Close(_ context.Context) error {
	t.state.Close()
	return t.conn.Close()
}

// IsClosed reports whether the transport's receive state has closed.
func (t *Transport[Incoming, Outgoing]) IsClosed() bool {
	return t.state.IsClosed()
}

func (t *Transport[Incoming, Outgoing]) receiveLoop() {
	for {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			if isCloseError(err) {
				t.logger.Debug().Log("websocket: connection closed")
				t.state.Close()
				return
			}
			t.logger.Warning().Err(err).Log("websocket: read failed")
			t.state.PushError(&IOError{Cause: err})
			t.state.Close()
			return
		}

		if messageType != gorilla.BinaryMessage {
			// Text, ping and pong frames carry no message payload for this
			// carrier; gorilla already answers ping/pong automatically.
			continue
		}

		msg, err := t.codec.Decode(data)
		if err != nil {
			t.logger.Warning().Err(err).Log("websocket: failed to decode message")
			t.state.PushError(&DecodeError{Cause: err})
			continue
		}
		t.logger.Debug().Int("size", len(data)).Log("websocket: received message")
		t.state.PushMessage(msg)
	}
}

func isCloseError(err error) bool {
	if gorilla.IsCloseError(err,
		gorilla.CloseNormalClosure,
		gorilla.CloseGoingAway,
		gorilla.CloseNoStatusReceived,
		gorilla.CloseAbnormalClosure,
	) {
		return true
	}
	var closeErr *gorilla.CloseError
	if errors.As(err, &closeErr) {
		return true
	}
	return errors.Is(err, gorilla.ErrCloseSent)
}
