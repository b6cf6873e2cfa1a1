package archive

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/acfdavis/thermogo/internal/common"
)

// TarballName is the temporary bulk archive file at the mirror root.
const TarballName = "ThermoML_all.tgz"

// FileRecorder receives every file the updater materializes. The mirror
// catalog implements it; a nil recorder disables recording.
type FileRecorder interface {
	RecordFile(path string) error
}

// UpdateOptions configures one mirror update run.
type UpdateOptions struct {
	Root         string
	ArchiveURL   string // override; skips metadata resolution when set
	Version      string // recorded alongside a manual ArchiveURL
	RevisionDate string // recorded alongside a manual ArchiveURL
	MetadataURL  string // NERDm endpoint, defaults to NERDmMetadataURL
	Feeds        map[string]string
	Workers      int
	MaxAge       time.Duration // freshness window for skipping the bulk download
	SkipFeeds    bool
	Client       *http.Client
	Recorder     FileRecorder
}

// UpdateResult summarizes one mirror update run.
type UpdateResult struct {
	Source        Source
	Skipped       bool // mirror was fresh, bulk download not attempted
	Extracted     int
	FeedFetched   int
	FeedStats     common.TransferStats
	XMLFiles      int
}

// Update brings the local mirror up to date: resolve the current
// archive release, download and extract the bulk tarball unless the
// mirror is fresh, then pull any newer per-journal feed entries.
func Update(opts UpdateOptions) (*UpdateResult, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("mirror root not set")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 300 * time.Second}
	}
	if opts.MetadataURL == "" {
		opts.MetadataURL = NERDmMetadataURL
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = 24 * time.Hour
	}

	if err := os.MkdirAll(opts.Root, 0755); err != nil {
		return nil, fmt.Errorf("create mirror root: %w", err)
	}

	res := &UpdateResult{}

	if Fresh(opts.Root, opts.MaxAge) {
		info, err := ReadInfo(opts.Root)
		if err == nil {
			res.Source = Source{URL: info.ArchiveURL, Version: info.Version, RevisionDate: info.RevisionDate}
		}
		res.Skipped = true
		log.Printf("Mirror is fresh (updated within %v), skipping bulk download", opts.MaxAge)
	} else {
		src, err := resolve(opts)
		if err != nil {
			return nil, err
		}
		res.Source = src

		extracted, err := fetchAndExtract(opts, src)
		if err != nil {
			return nil, err
		}
		res.Extracted = len(extracted)
		record(opts.Recorder, extracted)

		info := Info{
			ArchiveURL:         src.URL,
			Version:            src.Version,
			RevisionDate:       src.RevisionDate,
			Retrieved:          time.Now().UTC().Format(time.RFC3339),
			RepositoryMetadata: src.Metadata,
		}
		if err := WriteInfo(opts.Root, info); err != nil {
			return nil, fmt.Errorf("write archive info: %w", err)
		}
	}

	if !opts.SkipFeeds {
		fetched := SyncFeeds(opts.Client, opts.Feeds, opts.Root, opts.Workers, &res.FeedStats)
		res.FeedFetched = len(fetched)
		record(opts.Recorder, fetched)
	}

	res.XMLFiles = CountXMLFiles(opts.Root)
	return res, nil
}

func resolve(opts UpdateOptions) (Source, error) {
	if opts.ArchiveURL != "" {
		src := Source{URL: opts.ArchiveURL, Version: opts.Version, RevisionDate: opts.RevisionDate}
		if src.Version == "" {
			src.Version = "unknown (manual URL override)"
		}
		if src.RevisionDate == "" {
			src.RevisionDate = "unknown (manual URL override)"
		}
		log.Printf("Using manually specified archive URL: %s", src.URL)
		return src, nil
	}

	src, err := ResolveSource(opts.Client, opts.MetadataURL)
	if err != nil {
		log.Printf("Metadata resolution failed (%v), using pinned release %s", err, FallbackVersion)
		return FallbackSource(), nil
	}
	log.Printf("Resolved archive %s (revision %s)", src.Version, src.RevisionDate)
	return src, nil
}

func fetchAndExtract(opts UpdateOptions, src Source) ([]string, error) {
	tarball := filepath.Join(opts.Root, TarballName)

	log.Printf("Downloading %s", src.URL)
	var stats common.TransferStats
	if err := DownloadFile(opts.Client, src.URL, tarball, &stats); err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}
	if err := VerifyGzipMagic(tarball); err != nil {
		os.Remove(tarball)
		return nil, err
	}

	log.Printf("Extracting %s", tarball)
	extracted, err := ExtractArchive(tarball, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("extract archive: %w", err)
	}

	// The tarball is only an intermediate; drop it to save space.
	if err := os.Remove(tarball); err != nil {
		log.Printf("Warning: could not remove %s: %v", tarball, err)
	}
	return extracted, nil
}

func record(rec FileRecorder, paths []string) {
	if rec == nil {
		return
	}
	for _, p := range paths {
		if err := rec.RecordFile(p); err != nil {
			log.Printf("catalog: %s: %v", filepath.Base(p), err)
		}
	}
}
