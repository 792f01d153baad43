// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import "errors"

var (
	// ErrNoMarker is returned if a watch is requested without markers.
	ErrNoMarker = errors.New("no marker given")

	// ErrEmptyMarker is returned if any of the markers is an empty string.
	// An empty marker would match any output.
	ErrEmptyMarker = errors.New("marker must not be empty")

	// ErrInvalidDeadline is returned if the deadline is not positive.
	ErrInvalidDeadline = errors.New("deadline must be positive")

	// ErrNoExecutable is returned if the [LaunchSpec] has no executable.
	ErrNoExecutable = errors.New("no executable given")

	// ErrDeadlineExceeded is the [Result.Err] of a [TimedOut] watch.
	ErrDeadlineExceeded = errors.New("deadline exceeded before marker was found")

	// ErrProcessExited is the [Result.Err] of a [Failed] watch if the
	// process exited before any marker was found.
	ErrProcessExited = errors.New("process exited before marker was found")

	// ErrOutputClosed is the [Result.Err] of a [Failed] watch if the process
	// closed its stdout and stderr before any marker was found but kept
	// running.
	ErrOutputClosed = errors.New("output closed before marker was found")
)

// StartError is the [Result.Err] of a [Failed] watch if the process could not
// be started.
type StartError struct {
	Executable string
	Err        error
}

// Error implements the [error] interface.
func (e *StartError) Error() string {
	return "start " + e.Executable + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*StartError) Is(other error) bool {
	_, ok := other.(*StartError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *StartError) Unwrap() error {
	return e.Err
}
