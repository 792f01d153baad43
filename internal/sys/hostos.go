// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"runtime"
)

// HostOS is an operating system name as reported by uname, e.g. "Linux".
type HostOS string

// Host operating systems tooling is provided for.
const (
	Darwin  HostOS = "Darwin"
	Linux   HostOS = "Linux"
	Windows HostOS = "Windows"
)

var goosNames = map[string]HostOS{
	"darwin":  Darwin,
	"linux":   Linux,
	"windows": Windows,
}

// HostOSFor returns the uname style name for the given GOOS. Unknown values
// are returned unchanged.
func HostOSFor(goos string) HostOS {
	name, exists := goosNames[goos]
	if !exists {
		return HostOS(goos)
	}

	return name
}

// NativeOS returns the [HostOS] of the running system.
func NativeOS() HostOS {
	return HostOSFor(runtime.GOOS)
}

// Supported returns true if tooling is provided for the operating system.
func (o HostOS) Supported() bool {
	switch o {
	case Darwin, Linux, Windows:
		return true
	default:
		return false
	}
}

// Check returns [ErrOSNotSupported] if the operating system is not supported.
func (o HostOS) Check() error {
	if !o.Supported() {
		return fmt.Errorf("%w: %s", ErrOSNotSupported, string(o))
	}

	return nil
}

// ExecutableName returns the name of an executable file on the operating
// system.
func (o HostOS) ExecutableName(name string) string {
	if o == Windows {
		return name + ".exe"
	}

	return name
}
