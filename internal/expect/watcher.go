// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package expect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	readBufferSize = 4096

	// exitGracePeriod is how long to wait for the process to exit after its
	// output ended.
	exitGracePeriod = 200 * time.Millisecond
)

// Watcher defines what to wait for in the output of a process.
type Watcher struct {
	// Markers to search for in the output. The marker with the earliest
	// occurrence wins. At least one non-empty marker is required.
	Markers []string

	// Deadline is the maximum duration to wait for a marker after the
	// process has been started.
	Deadline time.Duration

	// Echo receives a copy of all output as it is read. Optional.
	Echo io.Writer
}

// Watch runs the process described by spec with a [Watcher] for the single
// given marker.
func Watch(
	ctx context.Context,
	spec LaunchSpec,
	marker string,
	deadline time.Duration,
) (*Result, error) {
	w := Watcher{
		Markers:  []string{marker},
		Deadline: deadline,
	}

	return w.Watch(ctx, spec)
}

// Validate checks the [Watcher] parameters.
func (w *Watcher) Validate() error {
	if len(w.Markers) == 0 {
		return ErrNoMarker
	}

	for _, marker := range w.Markers {
		if marker == "" {
			return ErrEmptyMarker
		}
	}

	if w.Deadline <= 0 {
		return ErrInvalidDeadline
	}

	return nil
}

// Watch starts the process described by spec and waits until any of the
// markers is printed on its stdout or stderr or the deadline elapses.
//
// The returned error is only non-nil for invalid parameters. Everything else,
// including the process failing to start, is reported by the [Result].
//
// The process is killed before Watch returns in any case.
func (w *Watcher) Watch(ctx context.Context, spec LaunchSpec) (*Result, error) {
	err := w.Validate()
	if err != nil {
		return nil, err
	}

	if spec.Executable == "" {
		return nil, ErrNoExecutable
	}

	readPipe, writePipe, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	cmd := spec.command()
	cmd.Stdout = writePipe
	cmd.Stderr = writePipe

	slog.Debug("Starting process", slog.String("command", spec.String()))

	startTime := time.Now()
	err = cmd.Start()

	// The child has its own copy now. Closing ours is required for EOF
	// detection once the child terminates.
	_ = writePipe.Close()

	if err != nil {
		_ = readPipe.Close()

		return &Result{
			Outcome: Failed,
			Marker:  NoMarker,
			Err:     &StartError{Executable: spec.Executable, Err: err},
		}, nil
	}

	// Stdout and stderr are files, so Wait does not touch the pipe and can
	// run while the output is read.
	waitDone := make(chan error, 1)

	go func() {
		waitDone <- cmd.Wait()
	}()

	// The deadline starts once the process is running.
	ctx, cancel := context.WithTimeout(ctx, w.Deadline)
	defer cancel()

	m := newMatcher(w.Markers)
	end := watchEnd{found: NoMarker}
	readDone := make(chan struct{})

	var readers errgroup.Group

	readers.Go(func() error {
		defer close(readDone)

		var err error

		end.found, err = w.consume(readPipe, m)

		return err
	})

	select {
	case <-readDone:
		end.outputEnded = true
	case <-ctx.Done():
		// The output may have ended at the same time.
		select {
		case <-readDone:
			end.outputEnded = true
		default:
		}
	}

	end.ctxErr = ctx.Err()
	elapsed := time.Since(startTime)

	// Closing the read end unblocks the reader, if it is still running.
	_ = readPipe.Close()
	end.readErr = readers.Wait()

	if end.outputEnded && end.found == NoMarker {
		// Output ends with the process usually. Give it a moment to be
		// reaped, so its own exit status is reported and not the kill.
		select {
		case end.waitErr = <-waitDone:
			end.exited = true
		case <-time.After(exitGracePeriod):
		}
	}

	killErr := terminate(cmd.Process)
	if killErr != nil {
		slog.Warn("Failed to kill process",
			slog.Int("pid", cmd.Process.Pid),
			slog.Any("error", killErr))
	}

	if !end.exited {
		<-waitDone
	}

	result := end.result()
	result.Elapsed = elapsed

	if result.Outcome != Matched {
		result.Output = m.output()
	}

	slog.Debug("Process watch finished",
		slog.String("outcome", result.Outcome.String()),
		slog.Duration("elapsed", elapsed))

	return result, nil
}

// watchEnd describes how a watch ended.
type watchEnd struct {
	// Index of the found marker or [NoMarker].
	found int

	// outputEnded is true if the reader finished before the deadline or
	// cancellation.
	outputEnded bool

	ctxErr  error
	readErr error

	// exited is true if the process exited on its own, with waitErr as
	// its exit status.
	exited  bool
	waitErr error
}

// result classifies the end of the watch. Whatever ended the wait first
// decides the outcome.
func (e watchEnd) result() *Result {
	result := &Result{
		Outcome: Failed,
		Marker:  e.found,
	}

	switch {
	case e.found != NoMarker:
		result.Outcome = Matched
	case !e.outputEnded && errors.Is(e.ctxErr, context.DeadlineExceeded):
		result.Outcome = TimedOut
		result.Err = ErrDeadlineExceeded
	case !e.outputEnded && e.ctxErr != nil:
		result.Err = e.ctxErr
	case e.readErr != nil:
		result.Err = fmt.Errorf("read output: %w", e.readErr)
	case e.exited && e.waitErr != nil:
		result.Err = fmt.Errorf("%w: %w", ErrProcessExited, e.waitErr)
	case e.exited:
		result.Err = ErrProcessExited
	default:
		result.Err = ErrOutputClosed
	}

	return result
}

// consume reads from the reader until a marker is found or the reader is
// closed. It returns the index of the found marker, if any.
func (w *Watcher) consume(reader io.Reader, m *matcher) (int, error) {
	buf := make([]byte, readBufferSize)

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			chunk := buf[:n]

			if w.Echo != nil {
				_, werr := w.Echo.Write(chunk)
				if werr != nil {
					slog.Debug("Failed to echo output", slog.Any("error", werr))
				}
			}

			found := m.feed(chunk)
			if found != NoMarker {
				return found, nil
			}
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, os.ErrClosed):
			return NoMarker, nil
		default:
			return NoMarker, err //nolint:wrapcheck
		}
	}
}
