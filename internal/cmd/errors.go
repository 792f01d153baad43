// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/aibor/fwcheck/internal/expect"
)

var (
	// ErrHelp is returned when help or version output is requested.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if the build info can not be read.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrValueOutOfRange is returned if a numeric flag value is outside of
	// its allowed range.
	ErrValueOutOfRange = errors.New("value is outside of range")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	msg string
	err error
}

// Error implements the [error] interface.
func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

// Is implements the [errors.Is] interface.
func (*ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ParseArgsError) Unwrap() error {
	return e.err
}

// BootTestError is returned if the firmware did not boot the test image as
// expected.
type BootTestError struct {
	Name   string
	Result *expect.Result
}

// Error implements the [error] interface.
func (e *BootTestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Name, e.Result.Outcome, e.Result.Err)
}

// Is implements the [errors.Is] interface.
func (*BootTestError) Is(other error) bool {
	_, ok := other.(*BootTestError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *BootTestError) Unwrap() error {
	return e.Result.Err
}
