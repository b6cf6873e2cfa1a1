// Package archive mirrors the NIST ThermoML archive into a local
// cache directory: bulk tarball download and extraction, per-journal
// RSS supplements, and archive metadata bookkeeping.
package archive

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/acfdavis/thermogo/internal/common"
)

// ErrNotFound reports a 404 from the archive host.
var ErrNotFound = errors.New("not found (404)")

// DownloadFile fetches url into destPath. Existing non-empty files are
// skipped so repeated mirror updates stay idempotent. The body lands in
// a temp file first and is atomically renamed into place.
func DownloadFile(client *http.Client, url, destPath string, stats *common.TransferStats) error {
	if info, err := os.Stat(destPath); err == nil && info.Size() > 0 {
		if stats != nil {
			stats.Skipped.Add(1)
		}
		return nil
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}

	n, err := io.Copy(f, resp.Body)
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename failed: %w", err)
	}

	if stats != nil {
		stats.Bytes.Add(uint64(n))
		stats.Completed.Add(1)
	}
	return nil
}

// VerifyGzipMagic checks that path starts with the gzip magic bytes.
func VerifyGzipMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	magic := make([]byte, 2)
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("read magic bytes: %w", err)
	}
	if magic[0] != 0x1f || magic[1] != 0x8b {
		return fmt.Errorf("%s is not a gzip archive (magic %x)", path, magic)
	}
	return nil
}
