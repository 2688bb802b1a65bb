//go:build unix

// Package xsys classifies platform-specific socket errors into the
// Closed/Other split the datagram carrier needs, repurposing the event loop
// package's golang.org/x/sys dependency (used there for low-level poller
// wakeup file descriptors) for syscall-errno based error classification
// instead, since Go's net package does not otherwise expose a portable way
// to tell "peer reset the connection" apart from other I/O failures.
package xsys

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsConnReset reports whether err indicates the peer reset or refused the
// connection (e.g. an ICMP port-unreachable surfacing as ECONNRESET on a
// connected UDP socket), which the datagram carrier treats as terminal the
// same way mezzenger-udp treats ConnectionReset/ConnectionAborted.
func IsConnReset(err error) bool {
	return errors.Is(err, unix.ECONNRESET) || errors.Is(err, unix.ECONNREFUSED)
}
