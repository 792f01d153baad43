// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for fwcheck. It handles
// flag parsing, boot asset preparation, error handling and output handling.
package cmd
