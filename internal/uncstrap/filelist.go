// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var sourceExtensions = []string{".c", ".h"}

func isSourceFile(name string) bool {
	return slices.Contains(sourceExtensions, strings.ToLower(filepath.Ext(name)))
}

// excluded returns true if any of the cleaned exclude entries is part of the
// cleaned path.
func excluded(path string, excludes []string) bool {
	path = filepath.Clean(path)

	for _, exclude := range excludes {
		if strings.Contains(path, filepath.Clean(exclude)) {
			return true
		}
	}

	return false
}

// SourceFiles returns the paths of all C source and header files in root and
// its sub directories that are not excluded. Paths are relative to root.
// File extensions are matched case-insensitive.
func SourceFiles(root string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.Type().IsRegular() || !isSourceFile(entry.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if !excluded(rel, excludes) {
			files = append(files, rel)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// WriteFileList writes the paths into the file, one per line.
func WriteFileList(path string, files []string) error {
	var content strings.Builder

	for _, file := range files {
		content.WriteString(file)
		content.WriteByte('\n')
	}

	//nolint:gosec
	err := os.WriteFile(path, []byte(content.String()), 0o644)
	if err != nil {
		return fmt.Errorf("write file list: %w", err)
	}

	return nil
}
