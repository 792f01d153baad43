// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Outcome is the terminal state of a watch.
type Outcome int

const (
	// Failed means the process could not be started, ended before any
	// marker was printed or the watch was cancelled.
	Failed Outcome = iota
	// Matched means one of the markers was found in the output.
	Matched
	// TimedOut means the deadline elapsed before any marker was found.
	TimedOut
)

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case TimedOut:
		return "timed out"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// NoMarker is the [Result.Marker] value if no marker was found.
const NoMarker = -1

// Result is the result of a watch.
type Result struct {
	// Outcome of the watch.
	Outcome Outcome

	// Index of the marker that was found, or [NoMarker].
	Marker int

	// Output captured until the watch ended. Only kept for unsuccessful
	// outcomes for diagnostics.
	Output []byte

	// Err describes why the watch was not successful. Nil for [Matched].
	Err error

	// Elapsed is the time between process start and the end of the watch.
	Elapsed time.Duration
}

// Success returns true if a marker was found.
func (r *Result) Success() bool {
	return r.Outcome == Matched
}

// Diagnostic returns the captured output for printing.
//
// Valid UTF-8 output is returned as is. Otherwise, a quoted representation of
// the raw bytes is returned, so nothing is lost in the log.
func (r *Result) Diagnostic() string {
	return decodeOutput(r.Output)
}

func decodeOutput(data []byte) string {
	_, _, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return fmt.Sprintf("%q", data)
	}

	return string(data)
}
