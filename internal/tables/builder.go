// Package tables flattens a mirrored ThermoML archive into long-format
// measurement and compound tables, persisted as Parquet, and provides
// the ClickHouse column batches for native-protocol ingestion.
package tables

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/acfdavis/thermogo/internal/common"
	"github.com/acfdavis/thermogo/internal/thermoml"
)

// Default output file names under the mirror root.
const (
	MeasurementsFile = "measurements.parquet"
	CompoundsFile    = "compounds.parquet"
)

// MaxErrorsToLog throttles per-file parse error logging.
const MaxErrorsToLog = 10

// ListXMLFiles walks the mirror root and returns every .xml file whose
// base name starts with journalPrefix ("" for all), sorted by walk order.
func ListXMLFiles(root, journalPrefix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".xml") {
			return nil
		}
		if journalPrefix != "" && !strings.HasPrefix(name, journalPrefix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// BuildTables parses every file into observation rows and deduplicated
// compound records. Files that fail to parse are logged and skipped,
// so one corrupt deposit does not sink the whole build.
func BuildTables(files []string, totals *common.ParseTotals) ([]thermoml.Observation, []thermoml.CompoundRecord) {
	var observations []thermoml.Observation
	var compounds []thermoml.CompoundRecord
	seen := make(map[string]bool)
	errorCount := 0

	for _, file := range files {
		p, err := thermoml.ParseFile(file)
		if err != nil {
			totals.FilesFailed.Add(1)
			errorCount++
			if errorCount <= MaxErrorsToLog {
				log.Printf("skipping %s: %v", filepath.Base(file), err)
			}
			continue
		}

		rows := p.Observations()
		observations = append(observations, rows...)

		for _, c := range p.Compounds() {
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			compounds = append(compounds, c)
		}

		totals.FilesParsed.Add(1)
		totals.Observations.Add(uint64(len(rows)))
	}

	if errorCount > MaxErrorsToLog {
		log.Printf("... and %d more parse errors (suppressed)", errorCount-MaxErrorsToLog)
	}

	totals.Compounds.Store(uint64(len(compounds)))
	return observations, compounds
}
