// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes QEMU system emulator commands for booting firmware
// images. It expects the required QEMU binary to be present on the system.
//
// The firmware is booted with its serial console attached to stdio, so the
// console output can be watched for expected strings with the expect package.
// The boot drive is either a raw disk image or a directory that QEMU exposes
// to the guest as virtual FAT drive.
package qemu
