// thermoml-update - Mirror updater for the NIST ThermoML archive
//
// Downloads the bulk ThermoML tarball (resolved via NERDm repository
// metadata), extracts it into the local mirror, then pulls newer
// deposits from the per-journal RSS feeds.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/thermoml-update ./cmd/thermoml-update

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/acfdavis/thermogo/internal/archive"
	"github.com/acfdavis/thermogo/internal/catalog"
	"github.com/acfdavis/thermogo/internal/common"
)

// Version can be overridden at build time via -ldflags
var Version = "1.1.0"

func main() {
	cfg := common.DefaultConfig()

	destDir := flag.String("dest", cfg.ArchivePath, "Mirror root directory")
	archiveURL := flag.String("archive-url", cfg.ArchiveURL, "Bulk archive URL override")
	workers := flag.Int("workers", 4, "Parallel feed download workers")
	timeout := flag.Duration("timeout", 300*time.Second, "HTTP timeout per download")
	maxAge := flag.Duration("max-age", 24*time.Hour, "Skip bulk download when the mirror is younger than this")
	skipFeeds := flag.Bool("skip-feeds", false, "Skip the RSS feed supplement")
	noCatalog := flag.Bool("no-catalog", false, "Do not record files in the mirror catalog")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "thermoml-update v%s - ThermoML Archive Mirror Updater\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Mirrors the NIST ThermoML archive (DOI 10.18434/MDS2-2422)\n")
		fmt.Fprintf(os.Stderr, "into a local directory of XML files.\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  THERMOML_PATH                    Mirror root (default ~/.thermoml)\n")
		fmt.Fprintf(os.Stderr, "  THERMOML_ARCHIVE_URL             Bulk archive URL override\n")
		fmt.Fprintf(os.Stderr, "  THERMOML_ARCHIVE_VERSION         Version label for a manual URL\n")
		fmt.Fprintf(os.Stderr, "  THERMOML_ARCHIVE_REVISION_DATE   Revision date for a manual URL\n")
	}

	flag.Parse()

	fmt.Println("=========================================================")
	fmt.Printf("ThermoML Mirror Update v%s\n", Version)
	fmt.Println("=========================================================")
	fmt.Printf("Mirror root: %s\n", *destDir)
	fmt.Printf("Workers:     %d parallel\n", *workers)
	fmt.Printf("Timeout:     %v per file\n", *timeout)
	fmt.Println()

	opts := archive.UpdateOptions{
		Root:         *destDir,
		ArchiveURL:   *archiveURL,
		Version:      cfg.ArchiveVersion,
		RevisionDate: cfg.ArchiveRevision,
		Feeds:        archive.JournalFeeds,
		Workers:      *workers,
		MaxAge:       *maxAge,
		SkipFeeds:    *skipFeeds,
		Client:       &http.Client{Timeout: *timeout},
	}

	var cat *catalog.Catalog
	if !*noCatalog {
		if err := os.MkdirAll(*destDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create mirror root: %v\n", err)
			os.Exit(1)
		}
		var err error
		cat, err = catalog.Open(*destDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open catalog: %v\n", err)
			os.Exit(1)
		}
		defer cat.Close()
		opts.Recorder = cat
	}

	startTime := time.Now()
	res, err := archive.Update(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("=========================================================")
	fmt.Println("Update Summary")
	fmt.Println("=========================================================")
	if res.Skipped {
		fmt.Println("Bulk:       skipped (mirror is fresh)")
	} else {
		fmt.Printf("Bulk:       %d files extracted\n", res.Extracted)
	}
	fmt.Printf("Archive:    %s (revision %s)\n", res.Source.Version, res.Source.RevisionDate)
	fmt.Printf("URL:        %s\n", res.Source.URL)
	if !*skipFeeds {
		fmt.Printf("Feeds:      %d new, %d skipped, %d failed (%s)\n",
			res.FeedStats.Completed.Load(),
			res.FeedStats.Skipped.Load(),
			res.FeedStats.Failed.Load(),
			humanize.Bytes(res.FeedStats.Bytes.Load()))
	}
	fmt.Printf("XML files:  %d\n", res.XMLFiles)
	if cat != nil {
		if n, err := cat.Count(); err == nil {
			fmt.Printf("Catalog:    %d files\n", n)
		}
	}
	fmt.Printf("Elapsed:    %v\n", time.Since(startTime).Round(time.Second))
	fmt.Println("=========================================================")

	if res.FeedStats.Failed.Load() > 0 {
		os.Exit(1)
	}
}
