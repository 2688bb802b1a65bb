package stream

import "github.com/zduny/mezzenger/mlog"

// DefaultMaxMessageSize is the oversize threshold applied when
// WithMaxMessageSize is not given, matching mezzenger-tcp's
// DEFAULT_MAX_MESSAGE_SIZE.
const DefaultMaxMessageSize = 65536

type options struct {
	maxMessageSize uint32
	logger         mlog.Logger
}

// Option configures a Transport constructed by New.
type Option interface {
	applyStream(*options) error
}

type optionFunc struct {
	fn func(*options) error
}

func (o *optionFunc) applyStream(opts *options) error { return o.fn(opts) }

// WithMaxMessageSize sets the largest payload, in bytes, a peer may send
// before the receive loop reports a MessageTooLargeError and skips it.
func WithMaxMessageSize(n uint32) Option {
	return &optionFunc{func(opts *options) error {
		opts.maxMessageSize = n
		return nil
	}}
}

// WithLogger overrides the logger used for this Transport. Without it, the
// Transport logs through mlog.Default().
func WithLogger(l mlog.Logger) Option {
	return &optionFunc{func(opts *options) error {
		opts.logger = l
		return nil
	}}
}

func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{maxMessageSize: DefaultMaxMessageSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyStream(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = mlog.Default()
	}
	return cfg, nil
}
