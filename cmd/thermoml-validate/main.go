// thermoml-validate - Structural validation report for the mirror
//
// Decodes each mirrored XML file and checks the referential structure
// a schema validator would enforce: compound registry references,
// variable and property numbers, phase and type presence.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/thermoml-validate ./cmd/thermoml-validate

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/acfdavis/thermogo/internal/common"
	"github.com/acfdavis/thermogo/internal/tables"
	"github.com/acfdavis/thermogo/internal/thermoml"
)

// Version can be overridden at build time via -ldflags
var Version = "1.1.0"

func main() {
	cfg := common.DefaultConfig()

	path := flag.String("path", cfg.ArchivePath, "Local ThermoML mirror root")
	journalPrefix := flag.String("journalprefix", "", "Only validate XML files whose name starts with this prefix")
	limit := flag.Int("limit", 0, "Validate at most this many files (0 = all)")
	quiet := flag.Bool("quiet", false, "Only print failures and the summary")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "thermoml-validate v%s - ThermoML Mirror Validator\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	files, err := tables.ListXMLFiles(*path, *journalPrefix)
	if err != nil {
		log.Fatalf("Cannot enumerate mirror files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No XML files found in %s", *path)
	}
	if *limit > 0 && len(files) > *limit {
		files = files[:*limit]
	}

	log.Printf("Validating %d file(s) under %s", len(files), *path)

	invalid := 0
	for _, file := range files {
		if err := thermoml.ValidateFile(file); err != nil {
			invalid++
			log.Printf("INVALID %s: %v", filepath.Base(file), err)
			continue
		}
		if !*quiet {
			log.Printf("ok      %s", filepath.Base(file))
		}
	}

	log.Printf("Validated %d file(s): %d ok, %d invalid", len(files), len(files)-invalid, invalid)
	if invalid > 0 {
		os.Exit(1)
	}
}
