// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"os/exec"
	"slices"
	"strings"
)

// LaunchSpec describes a child process invocation.
//
// Arguments are passed to the process as is. No shell is involved, so no
// quoting is required.
type LaunchSpec struct {
	// Path to the executable. If it contains no path separators, it is
	// resolved with [exec.LookPath].
	Executable string

	// Arguments passed to the executable.
	Args []string

	// Working directory of the process. Current directory if empty.
	Dir string

	// Environment of the process in "key=value" form. The environment of
	// the current process is inherited if nil.
	Env []string
}

// String returns a human readable representation of the command line.
func (s LaunchSpec) String() string {
	return strings.Join(append([]string{s.Executable}, s.Args...), " ")
}

func (s LaunchSpec) command() *exec.Cmd {
	//nolint:gosec
	cmd := exec.Command(s.Executable, slices.Clone(s.Args)...)
	cmd.Dir = s.Dir
	cmd.Env = slices.Clone(s.Env)
	cmd.SysProcAttr = newProcessGroupAttr()

	return cmd
}
