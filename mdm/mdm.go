// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package mdm reads the managed app configuration that a device-management
// agent has provisioned for the running application.
//
// On Windows the configuration lives in the [ContainerName] container of the
// application's local settings store, and each value is converted to its
// string form (see [CoerceValue]). On other platforms there is no such store
// and [GetSettings] always returns an empty map.
package mdm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mdmconfig/mdmconfig/mdm/internal/loggerx"
	"github.com/mdmconfig/mdmconfig/types/lazy"
)

var platformSource lazy.SyncValue[SettingsSource]

func currentSource() SettingsSource {
	return platformSource.Get(newPlatformSource)
}

// SetSourceForTest makes [GetSettings] read from src for the duration
// of tb and its subtests.
func SetSourceForTest(tb lazy.TB, src SettingsSource) {
	tb.Helper()
	platformSource.SetForTest(tb, src)
}

// GetSettings returns a snapshot of the application's managed settings.
//
// It never fails: if the platform has no managed settings store, the
// application has no identity, no configuration has been provisioned, or
// reading the store fails, the result is an empty map. The result is never
// nil and is owned by the caller.
func GetSettings() map[string]string {
	return readSettings(currentSource())
}

func readSettings(src SettingsSource) (settings map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			loggerx.Errorf("panic reading managed settings: %v", r)
			settings = map[string]string{}
		}
	}()

	settings, err := src.ReadSettings()
	switch {
	case err == nil:
	case errors.Is(err, ErrPlatformUnsupported):
	case errors.Is(err, ErrContainerAbsent), errors.Is(err, ErrNoApplicationContext):
		loggerx.Verbosef("no managed settings: %v", err)
	default:
		loggerx.Errorf("reading managed settings: %v", err)
	}
	if err != nil || settings == nil {
		return map[string]string{}
	}
	return settings
}

// ReadString returns the managed setting with the given key.
// It returns [ErrNotConfigured] if the setting is not present.
func ReadString(key string) (string, error) {
	v, ok := GetSettings()[key]
	if !ok {
		return "", ErrNotConfigured
	}
	return v, nil
}

// ReadBool returns the managed setting with the given key as a boolean.
// Values are parsed with [strconv.ParseBool], so both "true"/"false" and
// "1"/"0" are accepted. It returns [ErrNotConfigured] if the setting is
// not present.
func ReadBool(key string) (bool, error) {
	v, err := ReadString(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("managed setting %q: %w", key, err)
	}
	return b, nil
}
