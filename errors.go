package mezzenger

import (
	"errors"
	"fmt"
)

// closedError is the concrete type behind the [Closed] sentinel. It carries
// no state, so every closedError value compares equal to every other and
// errors.Is(err, Closed) works without needing a parameterized error type.
type closedError struct{}

func (closedError) Error() string { return "mezzenger: transport closed" }

// Closed is returned (optionally wrapped by further context via
// [fmt.Errorf] with %w) once a carrier's receive queue has drained and no
// further messages will arrive. errors.Is(err, Closed) reports whether err
// is or wraps this sentinel.
var Closed error = closedError{}

// IsClosed reports whether err is, or wraps, [Closed].
func IsClosed(err error) bool {
	return errors.Is(err, Closed)
}

// otherError wraps a carrier-specific error so it survives the Receiver
// boundary: errors.As can still recover the concrete carrier error, while
// errors.Is(err, Closed) correctly reports false for it.
type otherError struct {
	err error
}

func (e *otherError) Error() string {
	return fmt.Sprintf("mezzenger: %s", e.err.Error())
}

func (e *otherError) Unwrap() error {
	return e.err
}

// Other wraps a carrier-specific error for delivery through a Receiver.
// Passing nil returns nil.
func Other(err error) error {
	if err == nil {
		return nil
	}
	return &otherError{err: err}
}

// WrapError wraps cause with a message, preserving the ability for
// errors.Is/errors.As to see through to cause.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
