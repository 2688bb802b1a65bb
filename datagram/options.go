package datagram

import "github.com/zduny/mezzenger/mlog"

// DefaultReceiveBufferSize is the fixed-size buffer used for each ReadFrom,
// matching mezzenger-udp's 64KiB receive buffer (the maximum possible UDP
// payload).
const DefaultReceiveBufferSize = 64 * 1024

type options struct {
	receiveBufferSize int
	logger            mlog.Logger
}

// Option configures a Transport constructed by New.
type Option interface {
	applyDatagram(*options) error
}

type optionFunc struct {
	fn func(*options) error
}

func (o *optionFunc) applyDatagram(opts *options) error { return o.fn(opts) }

// WithReceiveBufferSize overrides the fixed per-datagram receive buffer
// size.
func WithReceiveBufferSize(n int) Option {
	return &optionFunc{func(opts *options) error {
		opts.receiveBufferSize = n
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
	cfg := &options{receiveBufferSize: DefaultReceiveBufferSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyDatagram(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = mlog.Default()
	}
	return cfg, nil
}
