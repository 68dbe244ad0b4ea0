// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package lazy provides types for lazily initialized values.
package lazy

import (
	"sync"
	"sync/atomic"
)

// SyncValue is a lazily computed value.
//
// Recursive use of a SyncValue from its own fill function will deadlock.
//
// SyncValue is safe for concurrent use.
type SyncValue[T any] struct {
	once sync.Once
	v    T

	// set reports whether v was filled or overridden, so that SetForTest
	// knows what to restore.
	set atomic.Bool
}

// Get returns z's value, calling fill to compute it if necessary.
// fill is called at most once.
func (z *SyncValue[T]) Get(fill func() T) T {
	z.once.Do(func() {
		z.v = fill()
		z.set.Store(true)
	})
	return z.v
}

// TB is a subset of testing.TB that we use to set up test helpers.
// It's defined here to avoid pulling in the testing package.
type TB interface {
	Helper()
	Cleanup(func())
}

// SetForTest sets z's value.
// It's used in tests only and reverts z's state back when tb and all its
// subtests complete.
// It is not safe for concurrent use and must not be called concurrently with
// any SyncValue methods, including another call to itself.
func (z *SyncValue[T]) SetForTest(tb TB, val T) {
	tb.Helper()

	oldSet, oldVal := z.set.Load(), z.v
	z.once.Do(func() {})

	z.v = val
	z.set.Store(true)

	tb.Cleanup(func() {
		if !oldSet {
			*z = SyncValue[T]{}
		} else {
			z.v = oldVal
		}
	})
}
