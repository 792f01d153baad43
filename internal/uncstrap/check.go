// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	fileListName = "unc-srclist.txt"
	diffFileName = "uncrustify.diff"
)

// Checker runs uncrustify on source files and collects the resulting changes.
type Checker struct {
	Runner Runner

	// Root is the project directory. It must be a git work tree.
	Root string

	// Stdout receives the diffs and the final message.
	Stdout io.Writer
}

// Check formats the files in place and fails with [ErrStyleViolations] if
// any file changed. All diffs are printed and written to uncrustify.diff in
// the project directory, which is removed again if there are no changes.
//
// The formatter binary, its config and the file list are removed once the
// formatter ran.
func (c *Checker) Check(
	ctx context.Context,
	formatter string,
	config string,
	files []string,
) error {
	diffFile := filepath.Join(c.Root, diffFileName)
	fileList := filepath.Join(c.Root, fileListName)

	err := removeIfExists(diffFile)
	if err != nil {
		return err
	}

	err = WriteFileList(fileList, files)
	if err != nil {
		return err
	}

	slog.Info("Running uncrustify", slog.Int("files", len(files)))

	_, err = c.Runner.Run(ctx, Command{
		Dir:  c.Root,
		Name: formatter,
		Args: []string{
			"-c", config,
			"-F", fileList,
			"--replace",
			"--no-backup",
			"--if-changed",
		},
	})

	c.cleanup(fileList, formatter, config)

	if err != nil {
		return err //nolint:wrapcheck
	}

	diff, err := c.collectDiff(ctx, files)
	if err != nil {
		return err
	}

	//nolint:gosec
	err = os.WriteFile(diffFile, diff, 0o644)
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}

	if len(diff) > 0 {
		return ErrStyleViolations
	}

	fmt.Fprintln(c.Stdout, "All done! Uncrustify detects no problems!")

	return removeIfExists(diffFile)
}

// collectDiff prints and returns the git diff of each file.
func (c *Checker) collectDiff(ctx context.Context, files []string) ([]byte, error) {
	var diff bytes.Buffer

	for _, file := range files {
		out, err := c.Runner.Run(ctx, Command{
			Dir:  c.Root,
			Name: "git",
			Args: []string{"diff", file},
		})
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		out = bytes.TrimRight(out, "\n")
		if len(out) == 0 {
			continue
		}

		fmt.Fprintf(c.Stdout, "%s\n\n", out)

		diff.Write(out)
		diff.WriteByte('\n')
	}

	return diff.Bytes(), nil
}

func (*Checker) cleanup(files ...string) {
	for _, file := range files {
		err := removeIfExists(file)
		if err != nil {
			slog.Warn("Failed to clean up", slog.Any("error", err))
		}
	}
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}
