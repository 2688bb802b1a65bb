// Package decorator documents the remaining decorators spec.md leaves as
// placeholders alongside Numbered (see the numbered package) and LatestOnly
// (see the latestonly package): Inspector, Split/Merge, Orderer and
// Reliabler. None of the retrieved original_source files implement these -
// mezzenger-utils/src only contains numbered.rs and latest_only.rs - so
// there is nothing in the corpus to ground a real implementation on. The
// types below exist so the decorator stack's intended shape is visible in
// the module layout and documented for a future contributor, without
// inventing behavior this module cannot ground in any retrieved source.
package decorator

import "github.com/zduny/mezzenger"

// Inspector will wrap a transport, invoking a callback on every sent and
// received message for logging or metrics purposes, without altering the
// message stream. Not yet implemented.
type Inspector[Incoming, Outgoing any] struct {
	inner mezzenger.Transport[Incoming, Outgoing]
}

// Splitter will present a single transport's Incoming messages as multiple
// independently-consumable sub-transports, keyed by some discriminator
// extracted from each message (e.g. a channel or topic field). Not yet
// implemented.
type Splitter[Incoming, Outgoing any] struct {
	inner mezzenger.Transport[Incoming, Outgoing]
}

// Merger will be Splitter's inverse: combine multiple transports' outgoing
// messages into a single underlying transport. Not yet implemented.
type Merger[Incoming, Outgoing any] struct {
	inner mezzenger.Transport[Incoming, Outgoing]
}

// Orderer will buffer and reorder numbered messages so Receive returns them
// strictly in sequence-number order, holding back any message that arrives
// ahead of a still-missing predecessor (the complement of latestonly, which
// discards predecessors instead of waiting for them). Not yet implemented.
type Orderer[Incoming, Outgoing any] struct {
	inner mezzenger.Transport[Incoming, Outgoing]
}

// Reliabler will add application-level acknowledgement and retransmission
// on top of an unreliable carrier (e.g. datagram), promoting it to
// Reliable. Not yet implemented.
type Reliabler[Incoming, Outgoing any] struct {
	inner mezzenger.Transport[Incoming, Outgoing]
}
