//go:build windows

package xsys

import (
	"errors"

	"golang.org/x/sys/windows"
)

// IsConnReset reports whether err indicates the peer reset or refused the
// connection, mirroring errno_unix.go's classification for Windows sockets.
func IsConnReset(err error) bool {
	return errors.Is(err, windows.WSAECONNRESET) || errors.Is(err, windows.WSAECONNREFUSED)
}
