// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aibor/fwcheck/internal/sys"
)

const (
	machineTypeQ35  = "q35"
	machineTypeVirt = "virt"

	cpuModelPenryn = "Penryn"
	cpuModelMax    = "max"

	defaultMemory = 2048
	defaultSMP    = 2

	fatDrivePrefix = "fat:rw:"
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// Path to the firmware image, e.g. OVMF.fd.
	Firmware string

	// Boot drive as passed to QEMU. Use [BootDrive] to create it from a
	// directory or disk image path.
	BootDrive string

	// QEMU machine type to use. Depends on the QEMU binary used.
	Machine string

	// CPU model to use. Depends on machine type and QEMU binary used.
	CPU string

	// Enable the RDRAND CPU feature. Only supported by x86 CPU models.
	RDRAND bool

	// Number of CPUs for the guest.
	SMP uint64

	// Memory for the machine in MB.
	Memory uint64

	// Enable KVM acceleration.
	KVM bool

	// Attach an USB mouse. Makes firmware initialize its USB stack.
	USBMouse bool

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not interfere with the arguments set by the command itself
	// or an error will be returned by [NewCommand].
	ExtraArgs []Argument
}

// AddDefaultsFor adds architecture specific default values to the given spec
// if the fields are not set yet.
func (s *CommandSpec) AddDefaultsFor(arch sys.Arch) error {
	var executable, machine, cpu string

	switch arch {
	case sys.AMD64:
		executable = "qemu-system-x86_64"
		machine = machineTypeQ35
		cpu = cpuModelPenryn
	case sys.ARM64:
		executable = "qemu-system-aarch64"
		machine = machineTypeVirt
		cpu = cpuModelMax
	default:
		return fmt.Errorf("%w: %s", sys.ErrArchNotSupported, arch.String())
	}

	if s.Executable == "" {
		s.Executable = executable
	}

	if s.Machine == "" {
		s.Machine = machine
	}

	if s.CPU == "" {
		s.CPU = cpu
	}

	if s.Memory == 0 {
		s.Memory = defaultMemory
	}

	if s.SMP == 0 {
		s.SMP = defaultSMP
	}

	return nil
}

// Validate checks for missing parameters and known incompatibilities.
func (s *CommandSpec) Validate() error {
	switch {
	case s.Executable == "":
		return &ArgumentError{"no qemu binary given"}
	case s.Firmware == "":
		return &ArgumentError{"no firmware given"}
	case s.BootDrive == "":
		return &ArgumentError{"no boot drive given"}
	case s.RDRAND && s.Machine == machineTypeVirt:
		return &ArgumentError{"rdrand requires a x86 cpu model"}
	}

	return nil
}

// cpuArgValue returns the CPU model with enabled features.
func (s *CommandSpec) cpuArgValue() []string {
	value := []string{s.CPU}

	if s.RDRAND {
		value = append(value, "+rdrand")
	}

	return value
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	var args []Argument

	if s.KVM {
		args = append(args, UniqueArg("enable-kvm"))
	}

	args = append(args,
		// Disable video output. The console is on the serial port.
		UniqueArg("display", "none"),
		UniqueArg("bios", s.Firmware),
	)

	if s.Machine != "" {
		args = append(args, UniqueArg("machine", s.Machine))
	}

	if s.Memory != 0 {
		args = append(args, UniqueArg("m", strconv.FormatUint(s.Memory, 10)))
	}

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.cpuArgValue()...))
	}

	if s.SMP != 0 {
		args = append(args, UniqueArg("smp", strconv.FormatUint(s.SMP, 10)))
	}

	if s.USBMouse {
		args = append(args,
			UniqueArg("usb"),
			RepeatableArg("device", "usb-mouse"),
		)
	}

	args = append(args,
		RepeatableArg("serial", "stdio"),
		UniqueArg("hda", s.BootDrive),
	)

	return append(args, s.ExtraArgs...)
}

// BootDrive returns the QEMU drive specification for the given path.
//
// A directory is exposed as writable virtual FAT drive, which is how an EFI
// system partition is provided without creating an image. A regular file is
// used as raw disk image.
func BootDrive(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("boot drive: %w", err)
	}

	switch {
	case stat.IsDir():
		return fatDrivePrefix + path, nil
	case stat.Mode().IsRegular():
		return path, nil
	default:
		return "", fmt.Errorf("boot drive %s: %w", path, sys.ErrNotRegularFile)
	}
}
