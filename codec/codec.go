// Package codec defines the pluggable message encoding contract used by the
// stream, datagram, websocket and worker carriers, plus a default
// encoding/json-backed implementation.
//
// The codec is explicitly out of scope as a carrier concern (spec §§1, 6:
// it is an external collaborator the carrier is generic over, not an
// ambient concern like logging or configuration), so unlike the rest of
// this module a standard-library-backed default implementation is
// appropriate: there is no single "the" serialization library the rest of
// the retrieved corpus agrees on the way it agrees on, say, testify for
// tests, and the original Rust crates themselves treat the codec
// (`kodec::Encode`/`Decode`) as caller-supplied rather than bundling one.
package codec

import "io"

// Codec encodes Outgoing values to a byte stream and decodes Incoming
// values from a complete, already-delimited buffer. Implementations must be
// safe for concurrent use: a single carrier may call Encode and Decode from
// different goroutines at the same time.
type Codec[Incoming, Outgoing any] interface {
	Encode(w io.Writer, v Outgoing) error
	Decode(data []byte) (Incoming, error)
}
