// Package mlog is the structured logging façade shared by every carrier
// package in this module. It wraps github.com/joeycumines/logiface's
// generic Logger, backed by github.com/joeycumines/stumpy's concrete event
// and writer implementation, behind a package-level default that carrier
// constructors fall back to when no per-carrier logger override is given.
//
// Design decision: a package-level default, guarded by a mutex, is
// appropriate here for the same reason the event loop package's logging.go
// uses one: logging is a cross-cutting infrastructure concern shared by
// every carrier instance in a process, and overriding it per call site
// would bloat every carrier's option surface for no practical benefit.
package mlog

import (
	"io"
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type every carrier logs through.
type Logger = *logiface.Logger[*stumpy.Event]

var global struct {
	sync.RWMutex
	logger Logger
}

func init() {
	global.logger = New(os.Stderr)
}

// New builds a Logger writing newline-delimited JSON events to w.
func New(w io.Writer) Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
	)
}

// SetDefault replaces the package-level default logger used by carriers
// that were not given an explicit WithLogger option.
func SetDefault(logger Logger) {
	global.Lock()
	defer global.Unlock()
	global.logger = logger
}

// Default returns the current package-level default logger.
func Default() Logger {
	global.RLock()
	defer global.RUnlock()
	return global.logger
}
