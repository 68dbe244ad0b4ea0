// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package loggerx provides logging functions to the rest of the mdm packages.
package loggerx

import (
	"log"

	"github.com/mdmconfig/mdmconfig/envknob"
	"github.com/mdmconfig/mdmconfig/types/lazy"
	"github.com/mdmconfig/mdmconfig/types/logger"
)

const (
	errorPrefix   = "mdm: "
	verbosePrefix = "mdm: [v2] "
)

var (
	lazyErrorf   lazy.SyncValue[logger.Logf]
	lazyVerbosef lazy.SyncValue[logger.Logf]
)

// Errorf formats and writes an error message to the log.
func Errorf(format string, args ...any) {
	errorf := lazyErrorf.Get(func() logger.Logf {
		return logger.WithPrefix(log.Printf, errorPrefix)
	})
	errorf(format, args...)
}

// Verbosef formats and writes an optional, verbose message to the log.
// Messages are discarded unless the MDM_DEBUG_VERBOSE knob is set.
func Verbosef(format string, args ...any) {
	verbosef := lazyVerbosef.Get(func() logger.Logf {
		prefixed := logger.WithPrefix(log.Printf, verbosePrefix)
		return func(format string, args ...any) {
			if envknob.DebugVerbose() {
				prefixed(format, args...)
			}
		}
	})
	verbosef(format, args...)
}

// SetForTest sets the specified errorf and verbosef functions for the duration
// of tb and its subtests. Unlike the default verbose logger, verbosef is
// called regardless of MDM_DEBUG_VERBOSE.
func SetForTest(tb lazy.TB, errorf, verbosef logger.Logf) {
	lazyErrorf.SetForTest(tb, errorf)
	lazyVerbosef.SetForTest(tb, verbosef)
}
