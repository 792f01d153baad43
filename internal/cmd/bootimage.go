// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"path/filepath"
	"time"
)

const defaultAssetsDir = "./external"

// bootTest describes a test image and how its successful boot is detected.
type bootTest struct {
	name    string
	espDir  string
	archive string
	markers []string
	timeout time.Duration
}

//nolint:gochecknoglobals
var (
	// TestConsole is an EFI application that prints the partition table of
	// the boot drive. The virtual FAT drive provided by QEMU has no
	// readable GPT entry #3, which results in a well known message.
	testConsole = bootTest{
		name:    "TestConsole",
		espDir:  "./TestConsole",
		markers: []string{"Partition #3 GPT entry is not accessible"},
		timeout: 30 * time.Second,
	}

	// TestLinux is a tiny Linux kernel with EFI stub that greets on boot.
	testLinux = bootTest{
		name:    "TestLinux",
		espDir:  "./TestLinux",
		markers: []string{"Hello World!"},
		timeout: 120 * time.Second,
	}
)

// archivePath returns the path of the archive the ESP directory is extracted
// from if it is missing.
func (t bootTest) archivePath(assetsDir string) string {
	return filepath.Join(assetsDir, t.name+".zip")
}
