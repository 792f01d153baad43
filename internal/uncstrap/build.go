// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/fwcheck/internal/sys"
)

const (
	// RepoURL is the uncrustify fork with UEFI style support.
	RepoURL = "https://projectmu@dev.azure.com/projectmu/Uncrustify/_git/Uncrustify"

	repoDir     = "Uncrustify-repo"
	shaFile     = "unc-sha.txt"
	buildDir    = "build"
	buildScheme = "Release"
)

const formatterName = "uncrustify"

// Builder builds uncrustify from source.
type Builder struct {
	Runner Runner

	// Root is the project directory the binary is placed in.
	Root string

	// URL of the git repository to build from.
	URL string

	// HostOS the binary is built on. It determines the executable name.
	HostOS sys.HostOS
}

// Build clones the repository, builds uncrustify with cmake and moves the
// binary into the project directory. It returns the path to the binary.
//
// The commit hash that was built is written to unc-sha.txt in the project
// directory, so it can be uploaded along with the binary.
func (b *Builder) Build(ctx context.Context) (string, error) {
	repo := filepath.Join(b.Root, repoDir)

	err := removeTree(repo)
	if err != nil {
		return "", fmt.Errorf("remove old clone: %w", err)
	}

	slog.Info("Cloning uncrustify", slog.String("url", b.URL))

	_, err = b.Runner.Run(ctx, Command{
		Dir:  b.Root,
		Name: "git",
		Args: []string{"clone", b.URL, repoDir},
	})
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	defer func() {
		err := removeTree(repo)
		if err != nil {
			slog.Warn("Failed to remove clone", slog.Any("error", err))
		}
	}()

	err = b.writeSHA(ctx, repo)
	if err != nil {
		return "", err
	}

	build := filepath.Join(repo, buildDir)

	err = os.Mkdir(build, 0o755)
	if err != nil {
		return "", fmt.Errorf("create build dir: %w", err)
	}

	slog.Info("Building uncrustify", slog.String("scheme", buildScheme))

	for _, args := range [][]string{
		{".."},
		{"--build", ".", "--config", buildScheme},
	} {
		_, err := b.Runner.Run(ctx, Command{Dir: build, Name: "cmake", Args: args})
		if err != nil {
			return "", err //nolint:wrapcheck
		}
	}

	exe, err := findFormatter(build, b.HostOS.ExecutableName(formatterName))
	if err != nil {
		return "", err
	}

	dest := filepath.Join(b.Root, filepath.Base(exe))

	err = os.Rename(exe, dest)
	if err != nil {
		return "", fmt.Errorf("move binary: %w", err)
	}

	return dest, nil
}

func (b *Builder) writeSHA(ctx context.Context, repo string) error {
	out, err := b.Runner.Run(ctx, Command{
		Dir:  repo,
		Name: "git",
		Args: []string{"rev-parse", "HEAD"},
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	sha := bytes.TrimSpace(out)

	//nolint:gosec
	err = os.WriteFile(filepath.Join(b.Root, shaFile), sha, 0o644)
	if err != nil {
		return fmt.Errorf("write sha: %w", err)
	}

	return nil
}

// findFormatter returns the path of the first file with the given name found
// in dir or its sub directories.
func findFormatter(dir, name string) (string, error) {
	var found string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.Type().IsRegular() && entry.Name() == name {
			found = path
			return fs.SkipAll
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search binary: %w", err)
	}

	if found == "" {
		return "", ErrFormatterNotFound
	}

	return found, nil
}

// removeTree removes the directory tree at path. Git creates its object files
// read-only, which can not be removed on Windows. So on failure, write
// permission is added to everything in the tree and removal is retried.
func removeTree(path string) error {
	err := os.RemoveAll(path)
	if err == nil {
		return nil
	}

	walkErr := filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr
		}

		info, err := entry.Info()
		if err != nil {
			return nil //nolint:nilerr
		}

		return os.Chmod(p, info.Mode().Perm()|0o700)
	})
	if walkErr != nil {
		return fmt.Errorf("make writable: %w", walkErr)
	}

	return os.RemoveAll(path) //nolint:wrapcheck
}
