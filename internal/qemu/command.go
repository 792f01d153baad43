// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"slices"
	"strings"

	"github.com/aibor/fwcheck/internal/expect"
)

// Command is a validated QEMU command ready to be launched.
type Command struct {
	name string
	args []string
}

// NewCommand creates a new [Command] from the given [CommandSpec].
func NewCommand(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	return &Command{
		name: spec.Executable,
		args: args,
	}, nil
}

// Name returns the QEMU executable.
func (c *Command) Name() string {
	return c.name
}

// Args returns a copy of the argument vector.
func (c *Command) Args() []string {
	return slices.Clone(c.args)
}

// String returns the command line for logging.
func (c *Command) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// LaunchSpec returns the [expect.LaunchSpec] for running the command.
func (c *Command) LaunchSpec() expect.LaunchSpec {
	return expect.LaunchSpec{
		Executable: c.name,
		Args:       c.Args(),
	}
}
