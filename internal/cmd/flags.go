// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aibor/fwcheck/internal/qemu"
	"github.com/aibor/fwcheck/internal/sys"
)

const (
	name = "fwcheck"

	memMin = 128
	memMax = 16384

	smpMin = 1
	smpMax = 16

	usageMessage = `Usage of 'fwcheck':
    fwcheck [flags...] firmware

Boots the firmware with QEMU and checks that it starts the test image from
the EFI system partition by waiting for the expected console output.

Check that the firmware boots the TestConsole application:
	fwcheck ./OVMF.fd

Check that the firmware boots a tiny Linux kernel with EFI stub:
	fwcheck -test-linux ./OVMF.fd

Missing ESP directories are extracted from ./external/TestConsole.zip and
./external/TestLinux.zip respectively.

All fwcheck flags can also be provided via environment variable FWCHECK_ARGS:
	FWCHECK_ARGS="-no-rdrand -debug" fwcheck ./OVMF.fd

All fwcheck flags can also be provided via file ./.fwcheck-args, with one
argument per line.
`
)

// stringList is a [flag.Value] collecting each value of a repeated flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type flags struct {
	firmware string

	noRDRAND        bool
	testLinux       bool
	testConsolePath string
	testLinuxPath   string
	assetsDir       string
	markers         stringList
	timeout         time.Duration

	arch sys.Arch
	qemu qemu.CommandSpec

	verbose bool
	debug   bool
	version bool

	flagSet *flag.FlagSet
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		testConsolePath: testConsole.espDir,
		testLinuxPath:   testLinux.espDir,
		assetsDir:       defaultAssetsDir,
		arch:            sys.AMD64,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.BoolVar(
		&f.noRDRAND,
		"no-rdrand",
		f.noRDRAND,
		"boot with CPU model without RDRAND support",
	)

	flagSet.StringVar(
		&f.testConsolePath,
		"test-console-path",
		f.testConsolePath,
		"ESP directory with the TestConsole application",
	)

	flagSet.StringVar(
		&f.testLinuxPath,
		"test-linux-path",
		f.testLinuxPath,
		"ESP directory with the TestLinux kernel (requires -test-linux)",
	)

	flagSet.BoolVar(
		&f.testLinux,
		"test-linux",
		f.testLinux,
		"boot TestLinux instead of TestConsole",
	)

	flagSet.StringVar(
		&f.assetsDir,
		"assets",
		f.assetsDir,
		"directory with test image archives for missing ESP directories",
	)

	flagSet.Var(
		&f.markers,
		"marker",
		"expected console output (default depends on test image). "+
			"Flag may be used more than once.",
	)

	flagSet.DurationVar(
		&f.timeout,
		"timeout",
		f.timeout,
		"time to wait for the expected output (default depends on test image)",
	)

	flagSet.Var(
		&f.arch,
		"arch",
		"guest architecture: amd64, arm64",
	)

	flagSet.StringVar(
		&f.qemu.Executable,
		"qemuBin",
		f.qemu.Executable,
		"QEMU binary to use (default depends on arch: qemu-system-*)",
	)

	flagSet.StringVar(
		&f.qemu.Machine,
		"machine",
		f.qemu.Machine,
		"QEMU machine type to use (default depends on arch)",
	)

	flagSet.StringVar(
		&f.qemu.CPU,
		"cpu",
		f.qemu.CPU,
		"QEMU CPU model to use (default depends on arch)",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.qemu.Memory,
			Lower: memMin,
			Upper: memMax,
		},
		"memory",
		"memory (in MB) for the QEMU VM (default 2048)",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.qemu.SMP,
			Lower: smpMin,
			Upper: smpMax,
		},
		"smp",
		"number of CPUs for the QEMU VM (default 2)",
	)

	flagSet.BoolVar(
		&f.verbose,
		"verbose",
		f.verbose,
		"print QEMU output while waiting",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

func (f *flags) parseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	if f.isSet("test-linux-path") && !f.testLinux {
		return f.fail("-test-linux-path requires -test-linux", nil)
	}

	positionalArgs := f.flagSet.Args()

	switch len(positionalArgs) {
	case 0:
		return f.fail("no firmware given", nil)
	case 1:
	default:
		return f.fail("unexpected arguments: "+
			strings.Join(positionalArgs[1:], " "), nil)
	}

	firmware, err := sys.AbsolutePath(positionalArgs[0])
	if err != nil {
		return f.fail("firmware path", err)
	}

	f.firmware = firmware

	for _, marker := range f.markers {
		if marker == "" {
			return f.fail("marker must not be empty", nil)
		}
	}

	if f.isSet("timeout") && f.timeout <= 0 {
		return f.fail("timeout must be positive", nil)
	}

	return nil
}

// isSet returns true if the flag with the given name was given explicitly.
func (f *flags) isSet(flagName string) bool {
	found := false

	f.flagSet.Visit(func(fl *flag.Flag) {
		if fl.Name == flagName {
			found = true
		}
	})

	return found
}

// bootTest returns the boot test to run with overrides from flags applied.
func (f *flags) bootTest() bootTest {
	test := testConsole
	test.espDir = f.testConsolePath

	if f.testLinux {
		test = testLinux
		test.espDir = f.testLinuxPath
	}

	test.archive = test.archivePath(f.assetsDir)

	if len(f.markers) > 0 {
		test.markers = f.markers
	}

	if f.timeout > 0 {
		test.timeout = f.timeout
	}

	return test
}

func (f *flags) logLevel() slog.Level {
	if f.debug {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
