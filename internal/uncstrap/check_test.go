// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/fwcheck/internal/uncstrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainDiff = `diff --git a/Application/Main.c b/Application/Main.c
--- a/Application/Main.c
+++ b/Application/Main.c
@@ -1 +1 @@
-int  x;
+int x;`

// setupCheck creates the files the checker expects to exist after the
// downloads.
func setupCheck(t *testing.T) (string, string, string) {
	t.Helper()

	root := t.TempDir()
	formatter := filepath.Join(root, "uncrustify")
	config := filepath.Join(root, "unc-UEFI.cfg")

	require.NoError(t, os.WriteFile(formatter, []byte("bin"), 0o700)) //nolint:gosec
	require.NoError(t, os.WriteFile(config, []byte(styleConfig), 0o600))

	return root, formatter, config
}

func formatterArgs(root, config string) []string {
	return []string{
		"-c", config,
		"-F", filepath.Join(root, "unc-srclist.txt"),
		"--replace",
		"--no-backup",
		"--if-changed",
	}
}

func TestChecker_Check(t *testing.T) {
	files := []string{"Application/Main.c", "Include/Lib.h"}

	t.Run("no changes", func(t *testing.T) {
		root, formatter, config := setupCheck(t)
		runner := uncstrap.NewFakeRunner()

		var stdout bytes.Buffer

		checker := uncstrap.Checker{Runner: runner, Root: root, Stdout: &stdout}

		err := checker.Check(t.Context(), formatter, config, files)
		require.NoError(t, err)

		assert.Equal(t, "All done! Uncrustify detects no problems!\n", stdout.String())
		assert.NoFileExists(t, filepath.Join(root, "uncrustify.diff"))
		assert.NoFileExists(t, filepath.Join(root, "unc-srclist.txt"))
		assert.NoFileExists(t, formatter)
		assert.NoFileExists(t, config)

		expectedCalls := []uncstrap.Command{
			{Dir: root, Name: formatter, Args: formatterArgs(root, config)},
			{Dir: root, Name: "git", Args: []string{"diff", "Application/Main.c"}},
			{Dir: root, Name: "git", Args: []string{"diff", "Include/Lib.h"}},
		}
		assert.Equal(t, expectedCalls, runner.Calls)
	})

	t.Run("changes", func(t *testing.T) {
		root, formatter, config := setupCheck(t)
		runner := uncstrap.NewFakeRunner()
		runner.AddScript("git", []string{"diff", "Application/Main.c"},
			uncstrap.FakeResult{Stdout: []byte(mainDiff + "\n")})

		var stdout bytes.Buffer

		checker := uncstrap.Checker{Runner: runner, Root: root, Stdout: &stdout}

		err := checker.Check(t.Context(), formatter, config, files)
		require.ErrorIs(t, err, uncstrap.ErrStyleViolations)

		assert.Equal(t, mainDiff+"\n\n", stdout.String())

		diff, err := os.ReadFile(filepath.Join(root, "uncrustify.diff"))
		require.NoError(t, err)
		assert.Equal(t, mainDiff+"\n", string(diff))

		assert.NoFileExists(t, formatter)
		assert.NoFileExists(t, config)
	})

	t.Run("stale diff is removed", func(t *testing.T) {
		root, formatter, config := setupCheck(t)
		diffFile := filepath.Join(root, "uncrustify.diff")
		require.NoError(t, os.WriteFile(diffFile, []byte("old"), 0o600))

		checker := uncstrap.Checker{
			Runner: uncstrap.NewFakeRunner(),
			Root:   root,
			Stdout: &bytes.Buffer{},
		}

		require.NoError(t, checker.Check(t.Context(), formatter, config, files))
		assert.NoFileExists(t, diffFile)
	})

	t.Run("formatter fails", func(t *testing.T) {
		root, formatter, config := setupCheck(t)
		runner := uncstrap.NewFakeRunner()
		runner.AddScript(formatter, formatterArgs(root, config),
			uncstrap.FakeResult{Err: assert.AnError})

		checker := uncstrap.Checker{Runner: runner, Root: root, Stdout: &bytes.Buffer{}}

		err := checker.Check(t.Context(), formatter, config, files)
		require.ErrorIs(t, err, assert.AnError)
		assert.Len(t, runner.Calls, 1, "git diff should not run")
		assert.NoFileExists(t, formatter)
		assert.NoFileExists(t, filepath.Join(root, "unc-srclist.txt"))
	})
}
