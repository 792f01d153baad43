// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package expect

import (
	"errors"
	"os"
	"syscall"
)

func newProcessGroupAttr() *syscall.SysProcAttr {
	return nil
}

func terminate(process *os.Process) error {
	err := process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return err //nolint:wrapcheck
}
