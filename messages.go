package mezzenger

import (
	"context"
	"iter"
)

// Messages adapts a Receiver into an [iter.Seq], the idiomatic Go
// equivalent of the Rust Stream facade over Messages<T, Message, Error>.
// Unlike Receive, Messages does not terminate the sequence on a non-Closed
// error: onError (if non-nil) is invoked out of band with the error and
// iteration continues, matching the original's "Other errors don't end the
// stream" behavior. The sequence ends once the carrier reports Closed, ctx
// is cancelled, or the consuming range loop stops early.
func Messages[Incoming any](ctx context.Context, r Receiver[Incoming], onError func(error)) iter.Seq[Incoming] {
	return func(yield func(Incoming) bool) {
		for {
			if ctx.Err() != nil {
				return
			}
			msg, err := r.Receive(ctx)
			if err != nil {
				if IsClosed(err) || ctx.Err() != nil {
					return
				}
				if onError != nil {
					onError(err)
				}
				continue
			}
			if !yield(msg) {
				return
			}
		}
	}
}

// Sink sends every message produced by seq through s, in order, stopping at
// the first Send error (which it returns) or once ctx is cancelled.
func Sink[Outgoing any](ctx context.Context, s Sender[Outgoing], seq iter.Seq[Outgoing]) error {
	var sendErr error
	seq(func(msg Outgoing) bool {
		if err := s.Send(ctx, msg); err != nil {
			sendErr = err
			return false
		}
		return ctx.Err() == nil
	})
	if sendErr != nil {
		return sendErr
	}
	return ctx.Err()
}
