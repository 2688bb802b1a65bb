package worker

import (
	"time"

	"github.com/zduny/mezzenger/mlog"
)

// DefaultOpenTimeout bounds how long Dial waits for the peer's Open
// handshake envelope before giving up.
const DefaultOpenTimeout = 10 * time.Second

// DefaultSendBuffer is the depth of the internal outbound queue Send
// enqueues onto before a background goroutine hands messages to the inner
// transport, letting a burst of sends return promptly even if the peer is
// momentarily slow to drain.
const DefaultSendBuffer = 64

type options struct {
	openTimeout time.Duration
	sendBuffer  int
	logger      mlog.Logger
}

// Option configures a Transport constructed by Dial.
type Option interface {
	applyWorker(*options) error
}

type optionFunc struct{ fn func(*options) error }

func (o *optionFunc) applyWorker(opts *options) error { return o.fn(opts) }

// WithOpenTimeout overrides how long Dial waits for the handshake to
// complete.
func WithOpenTimeout(d time.Duration) Option {
	return &optionFunc{func(opts *options) error {
		opts.openTimeout = d
		return nil
	}}
}

// WithSendBuffer overrides the depth of the internal outbound queue.
func WithSendBuffer(n int) Option {
	return &optionFunc{func(opts *options) error {
		opts.sendBuffer = n
		return nil
	}}
}

// WithLogger overrides the logger used for this Transport.
func WithLogger(l mlog.Logger) Option {
	return &optionFunc{func(opts *options) error {
		opts.logger = l
		return nil
	}}
}

func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{openTimeout: DefaultOpenTimeout, sendBuffer: DefaultSendBuffer}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyWorker(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = mlog.Default()
	}
	return cfg, nil
}
