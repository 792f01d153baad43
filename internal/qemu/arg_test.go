// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/aibor/fwcheck/internal/qemu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgument(t *testing.T) {
	tests := []struct {
		name       string
		arg        qemu.Argument
		expected   string
		value      string
		repeatable bool
	}{
		{
			name:     "unique flag",
			arg:      qemu.UniqueArg("usb"),
			expected: "-usb",
		},
		{
			name:     "unique with value",
			arg:      qemu.UniqueArg("bios", "OVMF.fd"),
			expected: "-bios OVMF.fd",
			value:    "OVMF.fd",
		},
		{
			name:     "sub options",
			arg:      qemu.UniqueArg("cpu", "Penryn", "+rdrand"),
			expected: "-cpu Penryn,+rdrand",
			value:    "Penryn,+rdrand",
		},
		{
			name:       "repeatable",
			arg:        qemu.RepeatableArg("device", "usb-mouse"),
			expected:   "-device usb-mouse",
			value:      "usb-mouse",
			repeatable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.arg.String())
			assert.Equal(t, tt.value, tt.arg.Value())
			assert.Equal(t, tt.repeatable, tt.arg.Repeatable())
		})
	}
}

func TestBuildArgumentStrings(t *testing.T) {
	tests := []struct {
		name        string
		args        []qemu.Argument
		expected    []string
		expectedErr error
	}{
		{
			name:     "empty",
			expected: []string{},
		},
		{
			name: "flags and values",
			args: []qemu.Argument{
				qemu.UniqueArg("enable-kvm"),
				qemu.UniqueArg("display", "none"),
				qemu.UniqueArg("hda", "fat:rw:./TestConsole"),
			},
			expected: []string{
				"-enable-kvm",
				"-display", "none",
				"-hda", "fat:rw:./TestConsole",
			},
		},
		{
			name: "value with spaces stays single element",
			args: []qemu.Argument{
				qemu.UniqueArg("bios", "/path with spaces/OVMF.fd"),
			},
			expected: []string{"-bios", "/path with spaces/OVMF.fd"},
		},
		{
			name: "repeatable with different values",
			args: []qemu.Argument{
				qemu.RepeatableArg("device", "usb-mouse"),
				qemu.RepeatableArg("device", "usb-kbd"),
			},
			expected: []string{
				"-device", "usb-mouse",
				"-device", "usb-kbd",
			},
		},
		{
			name: "unique collision",
			args: []qemu.Argument{
				qemu.UniqueArg("bios", "a.fd"),
				qemu.UniqueArg("bios", "b.fd"),
			},
			expectedErr: qemu.ErrArgumentCollision,
		},
		{
			name: "unique and repeatable collision",
			args: []qemu.Argument{
				qemu.RepeatableArg("serial", "stdio"),
				qemu.UniqueArg("serial", "none"),
			},
			expectedErr: qemu.ErrArgumentCollision,
		},
		{
			name: "repeatable collision",
			args: []qemu.Argument{
				qemu.RepeatableArg("device", "usb-mouse"),
				qemu.RepeatableArg("device", "usb-mouse"),
			},
			expectedErr: qemu.ErrArgumentCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := qemu.BuildArgumentStrings(tt.args)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
