// Package datagram implements the connectionless, unreliable, unordered
// carrier over any net.PacketConn (UDP in practice). Grounded on
// original_source/mezzenger-udp/src/lib.rs, including its dual send paths
// (a default-peer Send alongside an explicit SendTo for one-off
// sends to an arbitrary address) and receive_from, both of which spec.md's
// distillation dropped in favour of the plain Send/Receive contract (see
// SPEC_FULL.md §3.1).
package datagram

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"runtime"
	"sync"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/codec"
	"github.com/zduny/mezzenger/internal/state"
	"github.com/zduny/mezzenger/internal/xsys"
	"github.com/zduny/mezzenger/mlog"
)

// received pairs a decoded message with the address it arrived from, so a
// single shared state.State backs both Receive and ReceiveFrom.
type received[Incoming any] struct {
	addr    net.Addr
	message Incoming
}

// Transport is a datagram carrier for Incoming/Outgoing messages. Neither
// Reliable nor Ordered is embedded: datagrams may be lost, duplicated or
// reordered by the network, and this carrier makes no attempt to hide that.
type Transport[Incoming, Outgoing any] struct {
	conn   net.PacketConn
	remote net.Addr
	codec  codec.Codec[Incoming, Outgoing]
	bufSize int
	logger  mlog.Logger

	state  *state.State[received[Incoming]]
	sendMu sync.Mutex
}

var (
	_ mezzenger.Transport[int, int] = (*Transport[int, int])(nil)
)

// New wraps conn in a datagram Transport whose Send/Receive default to
// exchanging with remote, and starts its background receive loop.
func New[Incoming, Outgoing any](conn net.PacketConn, remote net.Addr, c codec.Codec[Incoming, Outgoing], opts ...Option) (*Transport[Incoming, Outgoing], error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	t := &Transport[Incoming, Outgoing]{
		conn:    conn,
		remote:  remote,
		codec:   c,
		bufSize: cfg.receiveBufferSize,
		logger:  cfg.logger,
		state:   state.New[received[Incoming]](),
	}
	go t.receiveLoop()

	// Best-effort safety net, never a substitute for an explicit Close: if
	// the Transport is garbage-collected while still open, release the
	// underlying socket so it doesn't leak.
	runtime.AddCleanup(t, closeOnGC[Incoming], cleanupArgs[Incoming]{conn: conn, state: t.state})

	return t, nil
}

type cleanupArgs[Incoming any] struct {
	conn  io.Closer
	state *state.State[received[Incoming]]
}

func closeOnGC[Incoming any](c cleanupArgs[Incoming]) {
	if !c.state.IsClosed() {
		c.state.Close()
		_ = c.conn.Close()
	}
}

// Send encodes message and sends it, whole, to the configured remote
// address.
func (t *Transport[Incoming, Outgoing]) Send(ctx context.Context, message Outgoing) error {
	return t.SendTo(ctx, t.remote, message)
}

// SendTo encodes message and sends it, whole, to addr, independent of the
// Transport's configured default remote address.
func (t *Transport[Incoming, Outgoing]) SendTo(_ context.Context, addr net.Addr, message Outgoing) error {
	if t.state.IsClosed() {
		return mezzenger.Closed
	}

	var payload bytes.Buffer
	if err := t.codec.Encode(&payload, message); err != nil {
		t.logger.Warning().Err(err).Log("datagram: failed to encode message")
		return mezzenger.Other(&EncodeError{Cause: err})
	}

	t.sendMu.Lock()
	n, err := t.conn.WriteTo(payload.Bytes(), addr)
	t.sendMu.Unlock()
	if err != nil {
		if isClosedConnError(err) {
			return mezzenger.Closed
		}
		t.logger.Warning().Err(err).Log("datagram: write failed")
		return mezzenger.Other(&IOError{Cause: err})
	}
	if n != payload.Len() {
		t.logger.Warning().Int("written", n).Int("size", payload.Len()).Log("datagram: short write")
		return mezzenger.Other(&SendError{Written: n, Size: payload.Len()})
	}
	return nil
}

// Receive returns the next decoded message, discarding the address it
// arrived from. Use ReceiveFrom to recover the sender's address.
func (t *Transport[Incoming, Outgoing]) Receive(ctx context.Context) (Incoming, error) {
	r, err := t.state.Receive(ctx)
	return r.message, err
}

// ReceiveFrom returns the next decoded message together with the address
// it arrived from.
func (t *Transport[Incoming, Outgoing]) ReceiveFrom(ctx context.Context) (Incoming, net.Addr, error) {
	r, err := t.state.Receive(ctx)
	return r.message, r.addr, err
}

// Close closes the underlying socket and the transport's receive state.
func (t *Transport[Incoming, Outgoing]) Close(_ context.Context) error {
	t.state.Close()
	return t.conn.Close()
}

// IsClosed reports whether the transport's receive state has closed.
func (t *Transport[Incoming, Outgoing]) IsClosed() bool {
	return t.state.IsClosed()
}

func (t *Transport[Incoming, Outgoing]) receiveLoop() {
	buf := make([]byte, t.bufSize)
	for {
		n, addr, err := t.conn.ReadFrom(buf)
		if err != nil {
			if isClosedConnError(err) || xsys.IsConnReset(err) {
				t.logger.Debug().Log("datagram: connection ended")
				t.state.Close()
				return
			}
			t.logger.Warning().Err(err).Log("datagram: read failed")
			t.state.PushError(&IOError{Cause: err})
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		msg, err := t.codec.Decode(payload)
		if err != nil {
			t.logger.Warning().Err(err).Log("datagram: failed to decode message")
			t.state.PushError(&DecodeError{Cause: err})
			continue
		}
		t.logger.Debug().Int("size", n).Log("datagram: received message")
		t.state.PushMessage(received[Incoming]{addr: addr, message: msg})
	}
}

func isClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF)
}
