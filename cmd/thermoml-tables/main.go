// thermoml-tables - Flatten the mirrored ThermoML archive into Parquet
//
// Walks the local mirror, parses every ThermoML XML file, and writes
// long-format measurement and compound tables as Parquet.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/thermoml-tables ./cmd/thermoml-tables

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/acfdavis/thermogo/internal/catalog"
	"github.com/acfdavis/thermogo/internal/common"
	"github.com/acfdavis/thermogo/internal/tables"
)

// Version can be overridden at build time via -ldflags
var Version = "1.1.0"

func main() {
	cfg := common.DefaultConfig()

	path := flag.String("path", cfg.ArchivePath, "Local ThermoML mirror root")
	outDir := flag.String("out", "", "Output directory (default: mirror root)")
	journalPrefix := flag.String("journalprefix", "", "Only parse XML files whose name starts with this prefix")
	useCatalog := flag.Bool("use-catalog", false, "Enumerate files from the mirror catalog instead of walking the tree")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "thermoml-tables v%s - ThermoML Table Builder\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Builds %s and %s from the local mirror.\n", tables.MeasurementsFile, tables.CompoundsFile)
		fmt.Fprintf(os.Stderr, "Each measurement row is one observation (long format).\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *outDir == "" {
		*outDir = *path
	}

	var files []string
	var err error
	if *useCatalog {
		files, err = catalogFiles(*path, *journalPrefix)
	} else {
		files, err = tables.ListXMLFiles(*path, *journalPrefix)
	}
	if err != nil {
		log.Fatalf("Cannot enumerate mirror files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No XML files found in %s (prefix %q). Run thermoml-update first.", *path, *journalPrefix)
	}

	log.Println("=========================================================")
	log.Printf("ThermoML Table Builder v%s", Version)
	log.Println("=========================================================")
	log.Printf("Mirror: %s", *path)
	log.Printf("Files:  %d XML documents", len(files))

	startTime := time.Now()
	var totals common.ParseTotals
	observations, compounds := tables.BuildTables(files, &totals)

	measurementsPath := filepath.Join(*outDir, tables.MeasurementsFile)
	if err := tables.WriteMeasurements(measurementsPath, observations); err != nil {
		log.Fatalf("Write measurements: %v", err)
	}
	compoundsPath := filepath.Join(*outDir, tables.CompoundsFile)
	if err := tables.WriteCompounds(compoundsPath, compounds); err != nil {
		log.Fatalf("Write compounds: %v", err)
	}

	log.Println("=========================================================")
	log.Println("Build Summary")
	log.Println("=========================================================")
	log.Printf("Parsed:       %d files (%d failed)", totals.FilesParsed.Load(), totals.FilesFailed.Load())
	log.Printf("Observations: %d rows -> %s (%s)", len(observations), measurementsPath, fileSize(measurementsPath))
	log.Printf("Compounds:    %d rows -> %s (%s)", len(compounds), compoundsPath, fileSize(compoundsPath))
	log.Printf("Elapsed:      %v", time.Since(startTime).Round(time.Millisecond))
	log.Println("=========================================================")

	if totals.FilesParsed.Load() == 0 {
		os.Exit(1)
	}
}

func catalogFiles(root, journalPrefix string) ([]string, error) {
	cat, err := catalog.Open(root)
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	entries, err := cat.Files("")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := filepath.Base(e.Path)
		if !strings.HasSuffix(strings.ToLower(name), ".xml") {
			continue
		}
		if journalPrefix != "" && !strings.HasPrefix(name, journalPrefix) {
			continue
		}
		files = append(files, e.Path)
	}
	return files, nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return humanize.Bytes(uint64(info.Size()))
}
