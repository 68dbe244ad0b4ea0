// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package mdm

// TODO: read managed app configuration from the com.apple.configuration.managed
// user defaults domain on darwin and ios.
func newPlatformSource() SettingsSource {
	return stubSource{}
}
