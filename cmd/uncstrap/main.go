// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command uncstrap checks the code style of C sources with uncrustify.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/fwcheck/internal/uncstrap"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	exitCode := uncstrap.Run(ctx, os.Args[1:], uncstrap.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	cancel()
	os.Exit(exitCode)
}
