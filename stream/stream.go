// Package stream implements the length-prefixed framing carrier over any
// io.ReadWriteCloser stream connection (TCP, TLS, net.Pipe, ...): each
// message is written as a big-endian uint32 byte count followed by that
// many bytes of codec-encoded payload. Grounded on
// original_source/mezzenger-tcp/src/lib.rs, including its oversize-message
// recovery path: a payload larger than the configured maximum is skipped on
// the wire, without desynchronising the frame boundary for the messages
// that follow.
package stream

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"runtime"
	"sync"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/codec"
	"github.com/zduny/mezzenger/internal/state"
	"github.com/zduny/mezzenger/mlog"
)

const lengthPrefixSize = 4

// EncodeError wraps a codec encode failure on Send.
type EncodeError struct {
	Cause error
}

func (e *EncodeError) Error() string { return "stream: failed to encode message: " + e.Cause.Error() }
func (e *EncodeError) Unwrap() error { return e.Cause }

// Transport is a length-prefixed framing carrier. It is reliable and
// ordered, per the underlying stream connection's own guarantees.
type Transport[Incoming, Outgoing any] struct {
	mezzenger.Reliable
	mezzenger.Ordered

	conn    io.ReadWriteCloser
	codec   codec.Codec[Incoming, Outgoing]
	maxSize uint32
	logger  mlog.Logger

	state  *state.State[Incoming]
	sendMu sync.Mutex
}

var (
	_ mezzenger.Transport[int, int] = (*Transport[int, int])(nil)
)

// New wraps conn in a framing Transport and starts its background receive
// loop. The caller remains responsible for eventually calling Close.
func New[Incoming, Outgoing any](conn io.ReadWriteCloser, c codec.Codec[Incoming, Outgoing], opts ...Option) (*Transport[Incoming, Outgoing], error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	t := &Transport[Incoming, Outgoing]{
		conn:    conn,
		codec:   c,
		maxSize: cfg.maxMessageSize,
		logger:  cfg.logger,
		state:   state.New[Incoming](),
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

// Send encodes message, prefixes it with its length, and writes the frame
// to the connection. If the encoded payload exceeds the configured maximum
// message size, nothing is written and a MessageTooLargeError is returned,
// mirroring the rollback the original Rust Sink::start_send performs before
// reporting the same condition.
func (t *Transport[Incoming, Outgoing]) Send(_ context.Context, message Outgoing) error {
	if t.state.IsClosed() {
		return mezzenger.Closed
	}

	var payload bytes.Buffer
	if err := t.codec.Encode(&payload, message); err != nil {
		t.logger.Warning().Err(err).Log("stream: failed to encode message")
		return mezzenger.Other(&EncodeError{Cause: err})
	}
	if payload.Len() > int(t.maxSize) {
		t.logger.Warning().Int("size", payload.Len()).Int("max", int(t.maxSize)).Log("stream: refusing to send oversize message")
		return mezzenger.Other(&MessageTooLargeError{Size: uint32(payload.Len()), Max: t.maxSize})
	}

	frame := make([]byte, lengthPrefixSize+payload.Len())
	binary.BigEndian.PutUint32(frame, uint32(payload.Len()))
	copy(frame[lengthPrefixSize:], payload.Bytes())

	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	if _, err := t.conn.Write(frame); err != nil {
		if isClosedConnError(err) {
			return mezzenger.Closed
		}
		t.logger.Warning().Err(err).Log("stream: write failed")
		return mezzenger.Other(&IOError{Cause: err})
	}
	return nil
}

// Receive returns the next decoded message, parking until one arrives, the
// connection closes, or ctx is cancelled.
func (t *Transport[Incoming, Outgoing]) Receive(ctx context.Context) (Incoming, error) {
	return t.state.Receive(ctx)
}

// Close closes the underlying connection and the transport's receive
// state. It is idempotent.
func (t *Transport[Incoming, Outgoing]) Close(_ context.Context) error {
	t.state.Close()
	return t.conn.Close()
}

// IsClosed reports whether the transport's receive state has closed, which
// happens once Close is called or the connection's read side ends.
func (t *Transport[Incoming, Outgoing]) IsClosed() bool {
	return t.state.IsClosed()
}

// receiveLoop implements the length-prefix framing state machine: a
// signed byte deficit/surplus counter (bytesToReceive) tracks how many more
// bytes must arrive from the wire before the current header or payload is
// complete, while bytesToSkip independently tracks how many remaining bytes
// of an oversize payload must be discarded. Both counters are drained
// identically whether the bytes they need were already buffered at the
// moment an oversize message was detected, or arrive later via Read - the
// two paths converge on the same accounting so the frame boundary for
// subsequent messages is never lost.
func (t *Transport[Incoming, Outgoing]) receiveLoop() {
	var buf []byte
	readBuf := make([]byte, 4096)

	var messageSize uint32
	receivingSize := true
	bytesToReceive := int64(lengthPrefixSize)
	var bytesToSkip uint32

	for {
		if bytesToReceive <= 0 {
			if receivingSize {
				messageSize = binary.BigEndian.Uint32(buf[:lengthPrefixSize])
				buf = buf[lengthPrefixSize:]
				bytesToReceive += int64(messageSize)

				if messageSize > t.maxSize {
					t.logger.Warning().Int("size", int(messageSize)).Int("max", int(t.maxSize)).Log("stream: discarding oversize message")
					t.state.PushError(&MessageTooLargeError{Size: messageSize, Max: t.maxSize})
					bytesToSkip = messageSize
					skip := uint32(len(buf))
					if skip > bytesToSkip {
						skip = bytesToSkip
					}
					buf = buf[skip:]
					bytesToSkip -= skip
					bytesToReceive += lengthPrefixSize
					receivingSize = true
					continue
				}

				receivingSize = false
				continue
			}

			payload := buf[:messageSize]
			buf = buf[messageSize:]
			msg, err := t.codec.Decode(payload)
			if err != nil {
				t.logger.Warning().Err(err).Log("stream: failed to decode message")
				t.state.PushError(&DecodeError{Cause: err})
			} else {
				t.logger.Debug().Int("size", int(messageSize)).Log("stream: received message")
				t.state.PushMessage(msg)
			}
			receivingSize = true
			bytesToReceive += lengthPrefixSize
			continue
		}

		n, err := t.conn.Read(readBuf)
		if n > 0 {
			buf = append(buf, readBuf[:n]...)
			if bytesToSkip > 0 {
				skip := uint32(n)
				if skip > bytesToSkip {
					skip = bytesToSkip
				}
				buf = buf[skip:]
				bytesToSkip -= skip
			}
			bytesToReceive -= int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || isClosedConnError(err) {
				t.logger.Debug().Log("stream: connection ended")
				t.state.Close()
				return
			}
			t.logger.Warning().Err(err).Log("stream: read failed")
			t.state.PushError(&IOError{Cause: err})
			t.state.Close()
			return
		}
	}
}

func isClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
