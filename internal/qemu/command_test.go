// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/aibor/fwcheck/internal/expect"
	"github.com/aibor/fwcheck/internal/qemu"
	"github.com/aibor/fwcheck/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	spec := qemu.CommandSpec{
		Firmware:  "/fw/OVMF.fd",
		BootDrive: "fat:rw:./TestConsole",
		RDRAND:    true,
		USBMouse:  true,
	}
	require.NoError(t, spec.AddDefaultsFor(sys.AMD64))

	t.Run("tcg", func(t *testing.T) {
		cmd, err := qemu.NewCommand(spec)
		require.NoError(t, err)

		expected := []string{
			"-display", "none",
			"-bios", "/fw/OVMF.fd",
			"-machine", "q35",
			"-m", "2048",
			"-cpu", "Penryn,+rdrand",
			"-smp", "2",
			"-usb",
			"-device", "usb-mouse",
			"-serial", "stdio",
			"-hda", "fat:rw:./TestConsole",
		}

		assert.Equal(t, "qemu-system-x86_64", cmd.Name())
		assert.Equal(t, expected, cmd.Args())
		assert.Equal(t, expect.LaunchSpec{
			Executable: "qemu-system-x86_64",
			Args:       expected,
		}, cmd.LaunchSpec())
	})

	t.Run("kvm", func(t *testing.T) {
		kvmSpec := spec
		kvmSpec.KVM = true

		cmd, err := qemu.NewCommand(kvmSpec)
		require.NoError(t, err)

		assert.Equal(t, "-enable-kvm", cmd.Args()[0])
		assert.Equal(t,
			"qemu-system-x86_64 -enable-kvm -display none -bios /fw/OVMF.fd "+
				"-machine q35 -m 2048 -cpu Penryn,+rdrand -smp 2 -usb "+
				"-device usb-mouse -serial stdio -hda fat:rw:./TestConsole",
			cmd.String())
	})

	t.Run("args are copied", func(t *testing.T) {
		cmd, err := qemu.NewCommand(spec)
		require.NoError(t, err)

		args := cmd.Args()
		args[0] = "-changed"

		assert.Equal(t, "-display", cmd.Args()[0])
	})

	t.Run("extra args collision", func(t *testing.T) {
		collidingSpec := spec
		collidingSpec.ExtraArgs = []qemu.Argument{
			qemu.UniqueArg("bios", "other.fd"),
		}

		_, err := qemu.NewCommand(collidingSpec)
		require.ErrorIs(t, err, qemu.ErrArgumentCollision)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := qemu.NewCommand(qemu.CommandSpec{})
		require.ErrorIs(t, err, &qemu.ArgumentError{})
	})
}
