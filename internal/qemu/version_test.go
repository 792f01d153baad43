// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/aibor/fwcheck/internal/qemu"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		expected    qemu.Version
		expectedErr error
	}{
		{
			name: "debian",
			output: "QEMU emulator version 7.2.11 (Debian 1:7.2+dfsg-7+deb12u7)\n" +
				"Copyright (c) 2003-2022 Fabrice Bellard and the QEMU Project developers\n",
			expected: qemu.Version{Major: 7, Minor: 2, Patch: 11},
		},
		{
			name:     "old",
			output:   "QEMU emulator version 4.2.1 (Debian 1:4.2-3ubuntu6.30)\n",
			expected: qemu.Version{Major: 4, Minor: 2, Patch: 1},
		},
		{
			name:     "first match wins",
			output:   "QEMU emulator version 9.1.0 (v9.1.0-dirty 1.2.3)\n",
			expected: qemu.Version{Major: 9, Minor: 1, Patch: 0},
		},
		{
			name:        "no version",
			output:      "qemu-system-x86_64: invalid option\n",
			expectedErr: qemu.ErrVersionNotFound,
		},
		{
			name:        "incomplete version",
			output:      "QEMU emulator version 8.0\n",
			expectedErr: qemu.ErrVersionNotFound,
		},
		{
			name:        "empty",
			expectedErr: qemu.ErrVersionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := qemu.ParseVersion([]byte(tt.output))
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestVersion_NeedsKVMForRDRAND(t *testing.T) {
	tests := []struct {
		version  qemu.Version
		expected bool
	}{
		{version: qemu.Version{Major: 4, Minor: 2, Patch: 1}, expected: true},
		{version: qemu.Version{Major: 6, Minor: 1, Patch: 99}, expected: true},
		{version: qemu.Version{Major: 6, Minor: 2, Patch: 0}, expected: false},
		{version: qemu.Version{Major: 6, Minor: 10, Patch: 0}, expected: false},
		{version: qemu.Version{Major: 10, Minor: 0, Patch: 0}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.version.NeedsKVMForRDRAND())
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	genVersion := gen.Struct(reflect.TypeOf(qemu.Version{}), map[string]gopter.Gen{
		"Major": gen.IntRange(0, 20),
		"Minor": gen.IntRange(0, 20),
		"Patch": gen.IntRange(0, 20),
	})

	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("antisymmetric", prop.ForAll(
		func(a, b qemu.Version) bool {
			return a.Compare(b) == -b.Compare(a)
		},
		genVersion, genVersion,
	))

	properties.Property("parses own string", prop.ForAll(
		func(v qemu.Version) bool {
			parsed, err := qemu.ParseVersion([]byte(v.String()))
			return err == nil && parsed.Compare(v) == 0
		},
		genVersion,
	))

	properties.TestingRun(t)
}

func TestQueryVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a shell")
	}

	executable := filepath.Join(t.TempDir(), "qemu-system-x86_64")
	script := "#!/bin/sh\n" +
		"[ \"$1\" = -version ] || exit 1\n" +
		"echo 'QEMU emulator version 6.1.0'\n"
	require.NoError(t, os.WriteFile(executable, []byte(script), 0o700))

	version, err := qemu.QueryVersion(t.Context(), executable)
	require.NoError(t, err)
	assert.Equal(t, qemu.Version{Major: 6, Minor: 1}, version)

	_, err = qemu.QueryVersion(t.Context(), filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
}
