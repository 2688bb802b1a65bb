package worker

// Kind discriminates the three sentinel variants exchanged on the wire: an
// Open handshake, a user Message, or a Close notification. Grounded on
// original_source/mezzenger-webworker/src/lib.rs's Wrapper<Message> enum,
// which in the retrieved source only carries Message/Close; Open is added
// per SPEC_FULL.md §3.2, since mezzenger-tests/worker/src/lib.rs constructs
// its transport via an async Transport::new_in_worker(codec).await that
// implies a handshake phase the retrieved Wrapper enum doesn't show.
type Kind uint8

const (
	KindOpen Kind = iota
	KindMessage
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindMessage:
		return "message"
	case KindClose:
		return "close"
	default:
		return "unknown"
	}
}

// Envelope is the sentinel-wrapped value exchanged over the inner
// transport. Message is the zero value of T for Open and Close envelopes.
type Envelope[T any] struct {
	Kind    Kind
	Message T
}
