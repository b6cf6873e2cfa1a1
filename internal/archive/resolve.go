package archive

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// NIST repository endpoints for the ThermoML archive (DOI 10.18434/MDS2-2422).
const (
	NERDmMetadataURL = "https://data.nist.gov/od/id/ark:/88434/mds2-2422?format=nerdm"

	FallbackArchiveURL   = "https://data.nist.gov/od/ds/mds2-2422/ThermoML.v2020-09-30.tgz"
	FallbackVersion      = "v2020-09-30"
	FallbackRevisionDate = "2020-09-30"
)

// Source identifies one resolvable state of the remote archive.
type Source struct {
	URL          string
	Version      string
	RevisionDate string

	// Metadata is the raw NERDm repository record, when one was fetched.
	Metadata json.RawMessage
}

// FallbackSource returns the pinned archive release used when metadata
// resolution fails.
func FallbackSource() Source {
	return Source{
		URL:          FallbackArchiveURL,
		Version:      FallbackVersion,
		RevisionDate: FallbackRevisionDate,
	}
}

// nerdmRecord is the subset of the NERDm schema the resolver reads.
type nerdmRecord struct {
	Title        string `json:"title"`
	Version      string `json:"version"`
	Issued       string `json:"issued"`
	Modified     string `json:"modified"`
	Distribution []struct {
		DownloadURL string `json:"downloadURL"`
	} `json:"distribution"`
}

// ResolveSource fetches the NERDm repository record and extracts the
// current tarball URL, version, and revision date. Fields the record
// does not carry fall back to the pinned release.
func ResolveSource(client *http.Client, metadataURL string) (Source, error) {
	resp, err := client.Get(metadataURL)
	if err != nil {
		return Source{}, fmt.Errorf("fetch NERDm metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Source{}, fmt.Errorf("fetch NERDm metadata: HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return Source{}, fmt.Errorf("fetch NERDm metadata: unexpected content type %q", ct)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Source{}, fmt.Errorf("decode NERDm metadata: %w", err)
	}

	var record nerdmRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return Source{}, fmt.Errorf("decode NERDm metadata: %w", err)
	}

	src := FallbackSource()
	src.Metadata = raw

	for _, dist := range record.Distribution {
		if strings.HasSuffix(dist.DownloadURL, ".tgz") {
			src.URL = dist.DownloadURL
			break
		}
	}
	if record.Version != "" {
		src.Version = record.Version
	}
	switch {
	case record.Modified != "":
		src.RevisionDate = isoDate(record.Modified)
	case record.Issued != "":
		src.RevisionDate = isoDate(record.Issued)
	}
	return src, nil
}

// isoDate trims an ISO timestamp down to YYYY-MM-DD.
func isoDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
