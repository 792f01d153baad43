// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/aibor/fwcheck/internal/sys"
)

const (
	projectTypeUEFI = "UEFI"

	usageMessage = `Usage of 'uncstrap':
    uncstrap [flags...] config.yml
    uncstrap -build

Checks the code style of all C sources in the current directory with
uncrustify. Files with any of the config's exclude_list entries in their path
are skipped. The directory must be a git work tree.

With -build, uncrustify is built from source instead and placed in the
current directory.

Environment:
    PROJECT_TYPE       project type, must be UEFI
    UNSUPPORTED_DIST   set to 1 to skip the host OS check
`
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

// Environment provides the external dependencies of [Run].
type Environment struct {
	Getenv   func(key string) string
	LookPath func(file string) (string, error)
	HostOS   sys.HostOS

	// Root is the project directory.
	Root string

	Runner     Runner
	Downloader *Downloader
}

// DefaultEnvironment returns the [Environment] of the current process.
func DefaultEnvironment(stderr io.Writer) (*Environment, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}

	return &Environment{
		Getenv:     os.Getenv,
		LookPath:   exec.LookPath,
		HostOS:     sys.NativeOS(),
		Root:       root,
		Runner:     &ExecRunner{Stderr: stderr},
		Downloader: NewDownloader(),
	}, nil
}

type flags struct {
	build      bool
	debug      bool
	configFile string
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	var f flags

	flagSet := flag.NewFlagSet("uncstrap", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageMessage)
		fmt.Fprintln(output, "\nFlags:")
		flagSet.PrintDefaults()
	}

	flagSet.BoolVar(&f.build, "build", false, "build uncrustify from source")
	flagSet.BoolVar(&f.build, "b", false, "shorthand for -build")
	flagSet.BoolVar(&f.debug, "debug", false, "enable debug output")

	err := flagSet.Parse(args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	switch {
	case f.build && flagSet.NArg() == 0:
	case !f.build && flagSet.NArg() == 1:
		f.configFile = flagSet.Arg(0)
	default:
		fmt.Fprintln(output, "expected either -build or a single config file")
		flagSet.Usage()

		return nil, errUsage
	}

	return &f, nil
}

var errUsage = errors.New("usage")

// checkEnvironment verifies the host OS and project type.
func (e *Environment) checkEnvironment() (string, error) {
	if e.Getenv("UNSUPPORTED_DIST") != "1" {
		err := e.HostOS.Check()
		if err != nil {
			return "", err //nolint:wrapcheck
		}
	}

	projectType := e.Getenv("PROJECT_TYPE")
	if projectType != projectTypeUEFI {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProjectType, projectType)
	}

	return projectType, nil
}

func (e *Environment) build(ctx context.Context) error {
	_, err := e.LookPath("cmake")
	if err != nil {
		return fmt.Errorf("%w: cmake", ErrToolNotFound)
	}

	builder := Builder{
		Runner: e.Runner,
		Root:   e.Root,
		URL:    RepoURL,
		HostOS: e.HostOS,
	}

	exe, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	slog.Info("Built uncrustify", slog.String("path", exe))

	return nil
}

func (e *Environment) check(
	ctx context.Context,
	projectType string,
	configFile string,
	stdout io.Writer,
) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	files, err := SourceFiles(e.Root, config.ExcludeList)
	if err != nil {
		return err
	}

	styleConfig := filepath.Join(e.Root, "unc-"+projectType+".cfg")

	err = e.Downloader.Config(ctx, filepath.Base(styleConfig), styleConfig)
	if err != nil {
		return err
	}

	formatter, err := e.Downloader.Formatter(ctx, e.HostOS, e.Root)
	if err != nil {
		_ = removeIfExists(styleConfig)
		return fmt.Errorf("formatter: %w", err)
	}

	checker := Checker{
		Runner: e.Runner,
		Root:   e.Root,
		Stdout: stdout,
	}

	return checker.Check(ctx, formatter, styleConfig, files)
}

// Run is the main entry point for the CLI command.
func (e *Environment) Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}

		return ExitUsage
	}

	level := slog.LevelInfo
	if flags.debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		cfg.Stderr,
		&slog.HandlerOptions{Level: level},
	)))

	projectType, err := e.checkEnvironment()
	if err == nil {
		if flags.build {
			err = e.build(ctx)
		} else {
			err = e.check(ctx, projectType, flags.configFile, cfg.Stdout)
		}
	}

	if err != nil {
		if errors.Is(err, ErrStyleViolations) {
			slog.Error("Uncrustify detects codestyle problems! Please fix")
		} else {
			slog.Error(err.Error())
		}

		return ExitFailure
	}

	return ExitOK
}

// Run runs the command in the current process environment.
func Run(ctx context.Context, args []string, cfg IO) int {
	env, err := DefaultEnvironment(cfg.Stderr)
	if err != nil {
		fmt.Fprintln(cfg.Stderr, err)
		return ExitFailure
	}

	return env.Run(ctx, args, cfg)
}
