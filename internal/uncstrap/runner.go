// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Command is an external command invocation.
type Command struct {
	// Working directory. Current directory if empty.
	Dir  string
	Name string
	Args []string
}

// String returns the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs external commands.
type Runner interface {
	// Run runs the command and returns its stdout.
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// Stderr receives the stderr of all commands.
	Stderr io.Writer
}

// Run implements [Runner].
func (r *ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	var stdout bytes.Buffer

	slog.Debug("Run command",
		slog.String("command", cmd.String()),
		slog.String("dir", cmd.Dir))

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Stdout = &stdout
	execCmd.Stderr = r.Stderr

	err := execCmd.Run()
	if err != nil {
		return stdout.Bytes(), &CommandError{Command: cmd.String(), Err: err}
	}

	return stdout.Bytes(), nil
}
