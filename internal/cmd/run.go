// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/fwcheck/internal/expect"
	"github.com/aibor/fwcheck/internal/qemu"
	"github.com/aibor/fwcheck/internal/sys"
	"github.com/aibor/fwcheck/internal/unpack"
)

// Exit codes of [Run].
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// IO provides input and output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func parseFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags := newFlags(cfg.Stderr)

	err = flags.parseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

// prepareESP makes sure the ESP directory of the boot test exists.
func prepareESP(test bootTest) error {
	if sys.IsDir(test.espDir) {
		return nil
	}

	slog.Info("Preparing ESP",
		slog.String("image", test.name),
		slog.String("dir", test.espDir))

	_, err := unpack.EnsureExtracted(test.archive, test.espDir)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", test.name, err)
	}

	return nil
}

// enableKVMIfRequired enables KVM if the QEMU version can not emulate RDRAND
// without it.
func enableKVMIfRequired(
	ctx context.Context,
	spec *qemu.CommandSpec,
	arch sys.Arch,
) {
	if !spec.RDRAND {
		return
	}

	version, err := qemu.QueryVersion(ctx, spec.Executable)
	if err != nil {
		slog.Warn("Unknown QEMU version, assuming RDRAND emulation",
			slog.Any("error", err))

		return
	}

	slog.Debug("QEMU version", slog.String("version", version.String()))

	if !version.NeedsKVMForRDRAND() {
		return
	}

	if !arch.KVMAvailable() {
		slog.Warn("QEMU requires KVM for RDRAND, but KVM is not available",
			slog.String("version", version.String()))

		return
	}

	spec.KVM = true
}

func newQemuCommand(
	ctx context.Context,
	flags *flags,
	test bootTest,
) (*qemu.Command, error) {
	spec := flags.qemu
	spec.Firmware = flags.firmware
	spec.RDRAND = !flags.noRDRAND && flags.arch == sys.AMD64
	spec.USBMouse = true

	err := spec.AddDefaultsFor(flags.arch)
	if err != nil {
		return nil, fmt.Errorf("qemu defaults: %w", err)
	}

	spec.BootDrive, err = qemu.BootDrive(test.espDir)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	enableKVMIfRequired(ctx, &spec, flags.arch)

	cmd, err := qemu.NewCommand(spec)
	if err != nil {
		return nil, fmt.Errorf("new qemu command: %w", err)
	}

	return cmd, nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	err := sys.ValidateFilePath(flags.firmware)
	if err != nil {
		return fmt.Errorf("firmware: %w", err)
	}

	test := flags.bootTest()

	err = prepareESP(test)
	if err != nil {
		return err
	}

	cmd, err := newQemuCommand(ctx, flags, test)
	if err != nil {
		return err
	}

	slog.Debug("QEMU command", slog.String("command", cmd.String()))

	watcher := expect.Watcher{
		Markers:  test.markers,
		Deadline: test.timeout,
	}

	if flags.verbose {
		watcher.Echo = cfg.Stdout
	}

	slog.Info("Testing ...",
		slog.String("image", test.name),
		slog.Duration("timeout", test.timeout))

	result, err := watcher.Watch(ctx, cmd.LaunchSpec())
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if !result.Success() {
		return &BootTestError{Name: test.name, Result: result}
	}

	slog.Debug("Found expected output",
		slog.String("marker", test.markers[result.Marker]),
		slog.Duration("elapsed", result.Elapsed))

	fmt.Fprintln(cfg.Stdout, "OK")

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return ExitOK
	}

	// Parse errors are printed by the flag set already.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return ExitUsage
}

func handleRunError(err error, stderr io.Writer) int {
	var bootErr *BootTestError
	if !errors.As(err, &bootErr) {
		slog.Error(err.Error())
		return ExitFailure
	}

	result := bootErr.Result

	switch result.Outcome {
	case expect.TimedOut:
		slog.Error("Timeout! Something went wrong, check log below",
			slog.String("image", bootErr.Name),
			slog.Duration("elapsed", result.Elapsed))
	default:
		slog.Error(err.Error())
	}

	if len(result.Output) > 0 {
		fmt.Fprintf(stderr, "Process output:\n%s\n", result.Diagnostic())
	}

	return ExitFailure
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, slog.LevelInfo)

	flags, err := parseFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.logLevel())

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err, cfg.Stderr)
	}

	return ExitOK
}
