// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/fwcheck/internal/uncstrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o600))
	}
}

func TestSourceFiles(t *testing.T) {
	root := t.TempDir()

	writeTree(t, root,
		"Application/Main.c",
		"Include/Lib.H",
		"Library/OcLib/Lib.C",
		"Library/External/zlib/inflate.c",
		"Library/External/zlib/inflate.h",
		"Legacy/boot.c",
		"README.md",
		"build.sh",
		"Docs/notes.cpp",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.c"), 0o755))

	tests := []struct {
		name     string
		excludes []string
		expected []string
	}{
		{
			name: "no excludes",
			expected: []string{
				"Application/Main.c",
				"Include/Lib.H",
				"Legacy/boot.c",
				"Library/External/zlib/inflate.c",
				"Library/External/zlib/inflate.h",
				"Library/OcLib/Lib.C",
			},
		},
		{
			name:     "path fragments",
			excludes: []string{"Library/External", "Legacy/"},
			expected: []string{
				"Application/Main.c",
				"Include/Lib.H",
				"Library/OcLib/Lib.C",
			},
		},
		{
			name:     "unclean exclude",
			excludes: []string{"./Library//External/"},
			expected: []string{
				"Application/Main.c",
				"Include/Lib.H",
				"Legacy/boot.c",
				"Library/OcLib/Lib.C",
			},
		},
		{
			name:     "file name fragment",
			excludes: []string{"inflate"},
			expected: []string{
				"Application/Main.c",
				"Include/Lib.H",
				"Legacy/boot.c",
				"Library/OcLib/Lib.C",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := make([]string, 0, len(tt.expected))
			for _, file := range tt.expected {
				expected = append(expected, filepath.FromSlash(file))
			}

			actual, err := uncstrap.SourceFiles(root, tt.excludes)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}
}

func TestWriteFileList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unc-srclist.txt")

	err := uncstrap.WriteFileList(path, []string{"a.c", "b/c.h"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a.c\nb/c.h\n", string(content))
}
