// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package unpack

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/fwcheck/internal/sys"
)

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// File extracts the zip archive at the given path into dir.
func File(archive, dir string) error {
	// Insecure paths are rejected by Extract regardless of GODEBUG settings.
	reader, err := zip.OpenReader(archive)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	return Extract(&reader.Reader, dir)
}

// Open returns a reader for the zip archive in data.
func Open(data []byte) (*zip.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	return reader, nil
}

// Extract writes all entries of the archive into dir. The directory is
// created if it does not exist.
//
// Entries with absolute paths or paths leaving dir are rejected with
// [ErrUnsafePath] before anything is written.
func Extract(archive *zip.Reader, dir string) error {
	for _, file := range archive.File {
		if !filepath.IsLocal(file.Name) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, file.Name)
		}
	}

	err := os.MkdirAll(dir, dirMode)
	if err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}

	for _, file := range archive.File {
		err := extractFile(file, dir)
		if err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}

	return nil
}

func extractFile(file *zip.File, dir string) error {
	path := filepath.Join(dir, filepath.FromSlash(file.Name))

	if file.FileInfo().IsDir() {
		return os.MkdirAll(path, dirMode)
	}

	err := os.MkdirAll(filepath.Dir(path), dirMode)
	if err != nil {
		return err //nolint:wrapcheck
	}

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = fileMode
	}

	src, err := file.Open()
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = io.Copy(dst, src) //nolint:gosec
	if err != nil {
		_ = dst.Close()
		return err //nolint:wrapcheck
	}

	return dst.Close() //nolint:wrapcheck
}

// EnsureExtracted extracts the zip archive into dir, unless dir already
// exists. It returns true if the archive has been extracted.
//
// The archive is extracted into a temporary sibling directory first, which is
// renamed to dir on success. So dir is never left partially populated.
func EnsureExtracted(archive, dir string) (bool, error) {
	stat, err := os.Stat(dir)

	switch {
	case err == nil && stat.IsDir():
		slog.Debug("Directory exists, skip extraction", slog.String("dir", dir))
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%s: %w", dir, sys.ErrNotDirectory)
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat target dir: %w", err)
	}

	parent := filepath.Dir(filepath.Clean(dir))

	tmpDir, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+"-*")
	if err != nil {
		return false, fmt.Errorf("create temp dir: %w", err)
	}

	// Temp dirs are created with restrictive permissions.
	err = os.Chmod(tmpDir, dirMode)
	if err == nil {
		err = File(archive, tmpDir)
	}

	if err == nil {
		err = os.Rename(tmpDir, dir)
	}

	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return false, err
	}

	slog.Debug("Extracted archive",
		slog.String("archive", archive),
		slog.String("dir", dir))

	return true, nil
}
