// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unpack

import "errors"

// ErrUnsafePath is returned if an archive entry would be written outside of
// the target directory.
var ErrUnsafePath = errors.New("unsafe path in archive")
