// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uncstrap

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aibor/fwcheck/internal/sys"
	"github.com/aibor/fwcheck/internal/unpack"
)

const (
	// DefaultBaseURL is where configs and prebuilt binaries are published.
	DefaultBaseURL = "https://raw.githubusercontent.com/acidanthera/ocbuild/master"

	httpTimeout = 5 * time.Second

	// Default limit for downloads, to not exhaust memory on broken responses.
	maxDownloadSize int64 = 64 << 20
)

// Downloader fetches the style config and prebuilt uncrustify binaries.
type Downloader struct {
	Client  *http.Client
	BaseURL string

	// MaxSize is the maximum size of a single download in bytes. A default
	// of 64 MiB is used if zero.
	MaxSize int64
}

// NewDownloader returns a [Downloader] for [DefaultBaseURL].
func NewDownloader() *Downloader {
	return &Downloader{
		Client:  &http.Client{Timeout: httpTimeout},
		BaseURL: DefaultBaseURL,
	}
}

func (d *Downloader) fetch(ctx context.Context, urlPath ...string) ([]byte, error) {
	url := d.BaseURL + "/" + path.Join(urlPath...)

	slog.Debug("Downloading", slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d: %s", ErrHTTPStatus, resp.StatusCode, url)
	}

	maxSize := cmp.Or(d.MaxSize, maxDownloadSize)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrDownloadTooLarge, url, maxSize)
	}

	return data, nil
}

// Config downloads the style config with the given name to dest.
func (d *Downloader) Config(ctx context.Context, name, dest string) error {
	data, err := d.fetch(ctx, "uncstrap", "configs", name)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	//nolint:gosec
	err = os.WriteFile(dest, data, 0o644)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Formatter downloads the prebuilt uncrustify for the given host and extracts
// it into dir. It returns the path to the executable.
//
// The published archive name is stable per host, but its content is only the
// name of the actual archive that is versioned by commit.
func (d *Downloader) Formatter(
	ctx context.Context,
	hostOS sys.HostOS,
	dir string,
) (string, error) {
	pointer, err := d.fetch(ctx, "external", "Uncrustify-"+string(hostOS)+".zip")
	if err != nil {
		return "", fmt.Errorf("archive name: %w", err)
	}

	archiveName := strings.TrimSpace(string(pointer))

	data, err := d.fetch(ctx, "external", archiveName)
	if err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}

	archive, err := unpack.Open(data)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	var exe string

	name := hostOS.ExecutableName(formatterName)

	for _, file := range archive.File {
		if path.Base(file.Name) == name && !file.FileInfo().IsDir() {
			exe = filepath.Join(dir, filepath.FromSlash(file.Name))
			break
		}
	}

	if exe == "" {
		return "", fmt.Errorf("%s: %w", archiveName, ErrFormatterNotFound)
	}

	err = unpack.Extract(archive, dir)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", archiveName, err)
	}

	stat, err := os.Stat(exe)
	if err != nil {
		return "", fmt.Errorf("stat binary: %w", err)
	}

	err = os.Chmod(exe, stat.Mode()|0o111)
	if err != nil {
		return "", fmt.Errorf("make binary executable: %w", err)
	}

	return exe, nil
}
