package archive

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// InfoFileName is the archive metadata file kept at the mirror root.
const InfoFileName = "archive_info.json"

// Info records which archive release the mirror was built from.
type Info struct {
	ArchiveURL         string          `json:"archiveURL"`
	Version            string          `json:"version"`
	RevisionDate       string          `json:"revisionDate"`
	Retrieved          string          `json:"retrieved"`
	RepositoryMetadata json.RawMessage `json:"repositoryMetadata,omitempty"`
}

// WriteInfo persists the archive metadata at the mirror root.
func WriteInfo(root string, info Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, InfoFileName), append(data, '\n'), 0644)
}

// ReadInfo loads the archive metadata from the mirror root.
func ReadInfo(root string) (Info, error) {
	var info Info
	data, err := os.ReadFile(filepath.Join(root, InfoFileName))
	if err != nil {
		return info, err
	}
	err = json.Unmarshal(data, &info)
	return info, err
}

// Fresh reports whether the mirror was updated within maxAge and still
// holds XML files, in which case a bulk re-download is skipped.
func Fresh(root string, maxAge time.Duration) bool {
	stat, err := os.Stat(filepath.Join(root, InfoFileName))
	if err != nil {
		return false
	}
	if time.Since(stat.ModTime()) >= maxAge {
		return false
	}
	return CountXMLFiles(root) > 0
}

// CountXMLFiles counts the .xml files below the mirror root.
func CountXMLFiles(root string) int {
	count := 0
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".xml") {
			count++
		}
		return nil
	})
	return count
}
