// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uncstrap enforces the code style of C sources with uncrustify.
//
// It either builds the uncrustify binary from source or downloads a prebuilt
// binary together with the style config, formats all C sources in place and
// fails if any of the files changed. Changes are detected with "git diff", so
// the working directory is expected to be a git work tree.
package uncstrap
