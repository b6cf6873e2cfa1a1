package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/pgzip"
)

// ErrPathTraversal reports a tar entry that would escape the
// destination directory.
var ErrPathTraversal = errors.New("tar entry escapes destination directory")

// ExtractArchive streams a .tgz archive into destDir and returns the
// paths of the extracted regular files. Decompression runs in parallel
// across cores. Entries resolving outside destDir abort the extraction.
func ExtractArchive(archivePath, destDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := pgzip.NewReaderN(f, 256*1024, runtime.NumCPU())
	if err != nil {
		return nil, fmt.Errorf("gzip open failed: %w", err)
	}
	defer gz.Close()

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return nil, err
	}

	var extracted []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return extracted, fmt.Errorf("read tar header: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		target, err := secureJoin(absDest, hdr.Name)
		if err != nil {
			return extracted, fmt.Errorf("%w: %s", ErrPathTraversal, hdr.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return extracted, err
		}

		out, err := os.Create(target)
		if err != nil {
			return extracted, err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			os.Remove(target)
			return extracted, fmt.Errorf("extract %s: %w", hdr.Name, err)
		}
		out.Close()
		extracted = append(extracted, target)
	}
	return extracted, nil
}

// secureJoin joins name under dir and rejects any result outside dir.
func secureJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", ErrPathTraversal
	}
	return target, nil
}
