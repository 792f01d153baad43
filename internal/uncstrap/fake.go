// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"context"
	"strings"
)

// FakeResult is the scripted result of a [FakeRunner] command.
type FakeResult struct {
	Stdout []byte
	Err    error

	// Effect is called when the command is run. It may simulate side effects
	// of the command, like created files.
	Effect func(cmd Command) error
}

// FakeRunner is a [Runner] for tests that returns scripted results. Commands
// without script succeed without output.
type FakeRunner struct {
	Scripts map[string]FakeResult
	Calls   []Command
}

// NewFakeRunner returns an empty [FakeRunner].
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Scripts: make(map[string]FakeResult),
	}
}

func fakeKey(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// AddScript adds the result for the command with exactly the given args.
func (f *FakeRunner) AddScript(name string, args []string, result FakeResult) {
	f.Scripts[fakeKey(name, args)] = result
}

// Run implements [Runner].
func (f *FakeRunner) Run(_ context.Context, cmd Command) ([]byte, error) {
	f.Calls = append(f.Calls, cmd)

	result, exists := f.Scripts[fakeKey(cmd.Name, cmd.Args)]
	if !exists {
		return nil, nil
	}

	if result.Effect != nil {
		err := result.Effect(cmd)
		if err != nil {
			return nil, err
		}
	}

	return result.Stdout, result.Err
}
