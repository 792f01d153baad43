// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a single QEMU option with an optional value.
//
// QEMU options are either allowed once per command line (e.g. "-bios") or
// may be given multiple times (e.g. "-device").
type Argument struct {
	name       string
	value      string
	repeatable bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	if a.value == "" {
		return "-" + a.name
	}

	return "-" + a.name + " " + a.value
}

// Name returns the option name without leading dash.
func (a Argument) Name() string {
	return a.name
}

// Value returns the option value. Empty for flags without value.
func (a Argument) Value() string {
	return a.value
}

// Repeatable returns true if the option may be present multiple times.
func (a Argument) Repeatable() bool {
	return a.repeatable
}

// collidesWith returns true if both arguments can not be on the same command
// line. Unique options collide by name. Repeatable options only collide if
// their values are equal as well.
func (a Argument) collidesWith(other Argument) bool {
	switch {
	case a.name != other.name:
		return false
	case a.repeatable && other.repeatable:
		return a.value == other.value
	default:
		return true
	}
}

// UniqueArg returns an [Argument] that may be present only once. Multiple
// values are joined by comma, as QEMU expects sub-options.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns an [Argument] that may be present multiple times with
// different values.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:       name,
		value:      strings.Join(value, ","),
		repeatable: true,
	}
}

// BuildArgumentStrings compiles the [Argument]s into the argument vector for
// the QEMU process. Each option and its value are separate elements, so no
// shell quoting is involved.
//
// It returns [ErrArgumentCollision] if any two arguments collide.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argv := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		other := slices.IndexFunc(args[:idx], arg.collidesWith)
		if other != -1 {
			return nil, fmt.Errorf("%w: %s, %s",
				ErrArgumentCollision, args[other], arg)
		}

		argv = append(argv, "-"+arg.name)

		if arg.value != "" {
			argv = append(argv, arg.value)
		}
	}

	return argv, nil
}
