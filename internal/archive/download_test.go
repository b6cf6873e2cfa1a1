package archive

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/acfdavis/thermogo/internal/common"
)

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<DataReport/>"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "a.xml")
	var stats common.TransferStats

	if err := DownloadFile(srv.Client(), srv.URL+"/a.xml", dest, &stats); err != nil {
		t.Fatalf("download: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "<DataReport/>" {
		t.Errorf("unexpected content: %q", data)
	}
	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
	if stats.Completed.Load() != 1 || stats.Bytes.Load() == 0 {
		t.Errorf("stats not updated: %+v", &stats)
	}
}

func TestDownloadFileSkipsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted for an existing file")
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "a.xml")
	if err := os.WriteFile(dest, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	var stats common.TransferStats
	if err := DownloadFile(srv.Client(), srv.URL+"/a.xml", dest, &stats); err != nil {
		t.Fatalf("download: %v", err)
	}
	if stats.Skipped.Load() != 1 {
		t.Errorf("expected skip, stats: %+v", &stats)
	}

	data, _ := os.ReadFile(dest)
	if string(data) != "cached" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestDownloadFileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.xml")
	err := DownloadFile(srv.Client(), srv.URL+"/missing.xml", dest, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("file created for failed download")
	}
}

func TestVerifyGzipMagic(t *testing.T) {
	dir := t.TempDir()

	gzPath := filepath.Join(dir, "ok.tgz")
	f, err := os.Create(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	gz.Write([]byte("payload"))
	gz.Close()
	f.Close()

	if err := VerifyGzipMagic(gzPath); err != nil {
		t.Errorf("expected valid gzip, got: %v", err)
	}

	plainPath := filepath.Join(dir, "plain.tgz")
	os.WriteFile(plainPath, []byte("<html>error page</html>"), 0644)
	if err := VerifyGzipMagic(plainPath); err == nil {
		t.Error("expected magic byte error for non-gzip file")
	}
}
