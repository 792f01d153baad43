// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProjectType is returned if PROJECT_TYPE is not supported.
	ErrUnsupportedProjectType = errors.New("unsupported project type")

	// ErrToolNotFound is returned if a required external tool is missing.
	ErrToolNotFound = errors.New("missing tool")

	// ErrFormatterNotFound is returned if no uncrustify binary is found after
	// build or download.
	ErrFormatterNotFound = errors.New("uncrustify binary is not found")

	// ErrStyleViolations is returned if uncrustify changed any file.
	ErrStyleViolations = errors.New("uncrustify detects codestyle problems")

	// ErrHTTPStatus is returned if a download responds with a non-OK status.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrDownloadTooLarge is returned if a download exceeds the size limit.
	ErrDownloadTooLarge = errors.New("download too large")
)

// CommandError wraps errors of external commands.
type CommandError struct {
	Command string
	Err     error
}

// Error implements the [error] interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Is implements the [errors.Is] interface.
func (*CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CommandError) Unwrap() error {
	return e.Err
}
