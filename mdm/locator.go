// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import (
	"errors"
	"fmt"
)

// ContainerName is the name of the local settings container that
// device-management agents write managed app configuration to.
// It must not change.
const ContainerName = "Managed.App.Settings"

// Store is an application's local settings store.
type Store interface {
	// LookupContainer returns the named sub-container of the store's root
	// container. It returns [ErrContainerAbsent] if there is no such
	// container. The caller must close the returned [Container].
	LookupContainer(name string) (Container, error)
	// Close releases the store.
	Close() error
}

// Container is a named container within a [Store].
type Container interface {
	// Entries enumerates the container's values. An entry that cannot be
	// read is reported with a non-nil [Entry.Err] rather than failing the
	// whole enumeration.
	Entries() ([]Entry, error)
	// Close releases the container.
	Close() error
}

// OpenStoreFunc resolves the running application's local settings store.
// It returns an error wrapping [ErrNoApplicationContext] if the process has
// no application identity.
type OpenStoreFunc func() (Store, error)

// Locate opens the local settings store, looks up the [ContainerName]
// container and returns its entries. Every store and container it opens
// is closed before it returns.
//
// A missing container yields [ErrContainerAbsent]. Any other failure is
// returned as is if it already wraps [ErrNoApplicationContext] or
// [ErrLookupFailure], and wrapped in [ErrLookupFailure] otherwise.
func Locate(open OpenStoreFunc) ([]Entry, error) {
	store, err := open()
	if err != nil {
		return nil, lookupError("opening settings store", err)
	}
	defer store.Close()

	c, err := store.LookupContainer(ContainerName)
	if err != nil {
		return nil, lookupError("looking up "+ContainerName, err)
	}
	defer c.Close()

	entries, err := c.Entries()
	if err != nil {
		return nil, lookupError("reading "+ContainerName, err)
	}
	return entries, nil
}

func lookupError(op string, err error) error {
	switch {
	case errors.Is(err, ErrContainerAbsent),
		errors.Is(err, ErrNoApplicationContext),
		errors.Is(err, ErrLookupFailure):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", ErrLookupFailure, op, err)
	}
}
