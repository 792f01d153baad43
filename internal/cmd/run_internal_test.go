// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"flag"
	"log/slog"
	"testing"
	"time"

	"github.com/aibor/fwcheck/internal/expect"
	"github.com/stretchr/testify/assert"
)

func TestHandleParseArgsError(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		expectedExitCode int
		expectedLog      bool
	}{
		{
			name:             "help",
			err:              &ParseArgsError{msg: "flag parse", err: flag.ErrHelp},
			expectedExitCode: ExitOK,
		},
		{
			name:             "parse args error",
			err:              &ParseArgsError{msg: "no firmware given"},
			expectedExitCode: ExitUsage,
		},
		{
			name:             "other error",
			err:              assert.AnError,
			expectedExitCode: ExitUsage,
			expectedLog:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logOutput bytes.Buffer
			setupLogging(&logOutput, slog.LevelInfo)

			assert.Equal(t, tt.expectedExitCode, handleParseArgsError(tt.err))

			if tt.expectedLog {
				assert.Contains(t, logOutput.String(), assert.AnError.Error())
			} else {
				assert.Empty(t, logOutput.String())
			}
		})
	}
}

func TestHandleRunError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedLog    string
		expectedStderr string
	}{
		{
			name:        "any error",
			err:         assert.AnError,
			expectedLog: assert.AnError.Error(),
		},
		{
			name: "timeout",
			err: &BootTestError{
				Name: "TestConsole",
				Result: &expect.Result{
					Outcome: expect.TimedOut,
					Marker:  expect.NoMarker,
					Output:  []byte("BdsDxe: failed to load Boot0001\n"),
					Err:     expect.ErrDeadlineExceeded,
					Elapsed: 30 * time.Second,
				},
			},
			expectedLog: "Timeout! Something went wrong",
			expectedStderr: "Process output:\n" +
				"BdsDxe: failed to load Boot0001\n\n",
		},
		{
			name: "timeout with binary output",
			err: &BootTestError{
				Name: "TestLinux",
				Result: &expect.Result{
					Outcome: expect.TimedOut,
					Marker:  expect.NoMarker,
					Output:  []byte("\xff\xfe"),
					Err:     expect.ErrDeadlineExceeded,
				},
			},
			expectedLog:    "Timeout! Something went wrong",
			expectedStderr: "Process output:\n\"\\xff\\xfe\"\n",
		},
		{
			name: "start failure",
			err: &BootTestError{
				Name: "TestConsole",
				Result: &expect.Result{
					Outcome: expect.Failed,
					Marker:  expect.NoMarker,
					Err: &expect.StartError{
						Executable: "qemu-system-x86_64",
						Err:        assert.AnError,
					},
				},
			},
			expectedLog: "TestConsole failed: start qemu-system-x86_64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logOutput, stderr bytes.Buffer
			setupLogging(&logOutput, slog.LevelInfo)

			exitCode := handleRunError(tt.err, &stderr)

			assert.Equal(t, ExitFailure, exitCode)
			assert.Contains(t, logOutput.String(), tt.expectedLog)
			assert.Equal(t, tt.expectedStderr, stderr.String())
		})
	}
}
