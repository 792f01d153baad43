// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package expect

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// newProcessGroupAttr puts the child in its own process group, so helpers it
// spawns are terminated along with it.
func newProcessGroupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills the process group led by the given process.
func terminate(process *os.Process) error {
	err := unix.Kill(-process.Pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}

	// Fall back to the process itself, e.g. if the group is gone already
	// but the leader is not reaped yet.
	err = process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return err //nolint:wrapcheck
}
