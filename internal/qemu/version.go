// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

var versionRegexp = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// RDRANDEmulationVersion is the first QEMU version that emulates the RDRAND
// CPU feature without KVM.
//
//nolint:gochecknoglobals
var RDRANDEmulationVersion = Version{Major: 6, Minor: 2}

// Version is a QEMU release version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String implements [fmt.Stringer].
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or +1 depending on whether v is lower, equal or
// greater than other.
func (v Version) Compare(other Version) int {
	return cmp.Or(
		cmp.Compare(v.Major, other.Major),
		cmp.Compare(v.Minor, other.Minor),
		cmp.Compare(v.Patch, other.Patch),
	)
}

// Less returns true if v is lower than other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// NeedsKVMForRDRAND returns true if QEMU of this version can provide RDRAND
// to the guest only with KVM.
func (v Version) NeedsKVMForRDRAND() bool {
	return v.Less(RDRANDEmulationVersion)
}

// ParseVersion returns the first version found in the given output of
// "qemu-system-* -version".
func ParseVersion(output []byte) (Version, error) {
	match := versionRegexp.FindSubmatch(output)
	if match == nil {
		return Version{}, ErrVersionNotFound
	}

	var (
		version Version
		err     error
	)

	for idx, field := range []*int{&version.Major, &version.Minor, &version.Patch} {
		*field, err = strconv.Atoi(string(match[idx+1]))
		if err != nil {
			return Version{}, fmt.Errorf("%w: %w", ErrVersionNotFound, err)
		}
	}

	return version, nil
}

// QueryVersion runs the given QEMU binary and parses its version.
func QueryVersion(ctx context.Context, executable string) (Version, error) {
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, executable, "-version")
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err != nil {
		return Version{}, fmt.Errorf("query version: %w", err)
	}

	return ParseVersion(stdout.Bytes())
}
