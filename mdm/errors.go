// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import "errors"

var (
	// ErrPlatformUnsupported is returned by the [SettingsSource] of platforms
	// that have no per-application managed settings container.
	ErrPlatformUnsupported = errors.New("managed app settings are not supported on this platform")
	// ErrNoApplicationContext is returned when the process is not running
	// with an application identity, such as when an unpackaged binary is
	// launched directly.
	ErrNoApplicationContext = errors.New("no application context")
	// ErrContainerAbsent is returned when the settings store has no
	// [ContainerName] container. It is the normal state of a device
	// with no MDM policy applied to the application.
	ErrContainerAbsent = errors.New("container does not exist")
	// ErrLookupFailure wraps any other platform API failure while
	// resolving the store, the container or its values.
	ErrLookupFailure = errors.New("settings lookup failed")
	// ErrUnsupportedType is reported for an entry whose value kind has no
	// string representation.
	ErrUnsupportedType = errors.New("unsupported value type")
	// ErrUnreadableEntry is reported for an entry whose key or value could
	// not be read.
	ErrUnreadableEntry = errors.New("unreadable entry")
	// ErrNotConfigured is returned by [ReadString] and [ReadBool] when the
	// requested key is not present in the managed settings.
	ErrNotConfigured = errors.New("not configured")
)
