// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package mdm

import "github.com/mdmconfig/mdmconfig/mdm/internal/loggerx"

// SettingsSource reads a snapshot of the managed settings.
// Implementations must be safe for concurrent use.
type SettingsSource interface {
	// ReadSettings returns the current managed settings.
	ReadSettings() (map[string]string, error)
}

// NewContainerSource returns a [SettingsSource] that reads the
// [ContainerName] container of the store returned by open, and coerces
// its entries to strings with [CoerceAll]. The store is reopened on every
// read; nothing is cached.
func NewContainerSource(open OpenStoreFunc) SettingsSource {
	return containerSource{open: open}
}

type containerSource struct {
	open OpenStoreFunc
}

func (s containerSource) ReadSettings() (map[string]string, error) {
	entries, err := Locate(s.open)
	if err != nil {
		return nil, err
	}
	settings, dropped := coerceAll(entries, func(e Entry, err error) {
		loggerx.Verbosef("skipping %q: %v", e.Key, err)
	})
	if dropped > 0 {
		loggerx.Verbosef("skipped %d of %d entries in %s", dropped, len(entries), ContainerName)
	}
	return settings, nil
}

// stubSource is the [SettingsSource] of platforms without managed app settings.
type stubSource struct{}

func (stubSource) ReadSettings() (map[string]string, error) {
	return nil, ErrPlatformUnsupported
}
