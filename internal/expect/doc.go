// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package expect runs a child process and watches its combined stdout and
// stderr output for one of a set of marker strings.
//
// A watch resolves to [Matched] as soon as a marker shows up, without waiting
// for the process to exit, or to [TimedOut] if the deadline elapses first. If
// the process can not be started or ends before any marker is printed, the
// result is [Failed]. The process, and on unix its whole process group, is
// killed before [Watcher.Watch] returns, regardless of the outcome.
package expect
