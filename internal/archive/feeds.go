package archive

import (
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/acfdavis/thermogo/internal/common"
)

// JournalFeeds maps journal keys to the per-journal RSS feeds the NIST
// TRC publishes for newly deposited ThermoML files.
var JournalFeeds = map[string]string{
	"jced": "https://trc.nist.gov/RSS/jced.xml",
	"jct":  "https://trc.nist.gov/RSS/jct.xml",
	"fpe":  "https://trc.nist.gov/RSS/fpe.xml",
	"tca":  "https://trc.nist.gov/RSS/tca.xml",
	"ijt":  "https://trc.nist.gov/RSS/ijt.xml",
}

type rssFeed struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// FetchFeed downloads an RSS feed and returns the entry links.
func FetchFeed(client *http.Client, feedURL string) ([]string, error) {
	resp, err := client.Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: HTTP %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	links := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}

// localPath maps a feed entry link to its mirror location: the URL path
// relative to the mirror root, e.g. .../jced/2014/abc123.xml.
func localPath(root, link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	rel := strings.TrimPrefix(path.Clean(u.Path), "/")
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("unusable feed link path %q", u.Path)
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// SyncFeeds downloads every feed entry missing from the mirror using a
// bounded worker pool. Failures are logged per entry and counted, not
// fatal: a feed sync is a best-effort supplement to the bulk archive.
// Returns the local paths of newly downloaded files.
func SyncFeeds(client *http.Client, feeds map[string]string, root string, workers int, stats *common.TransferStats) []string {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	var fetched []string

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for key, feedURL := range feeds {
		links, err := FetchFeed(client, feedURL)
		if err != nil {
			log.Printf("[%s] feed error: %v", key, err)
			stats.Failed.Add(1)
			continue
		}

		for _, link := range links {
			dest, err := localPath(root, link)
			if err != nil {
				log.Printf("[%s] %v", key, err)
				stats.Failed.Add(1)
				continue
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				log.Printf("[%s] mkdir: %v", key, err)
				stats.Failed.Add(1)
				continue
			}

			if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
				stats.Skipped.Add(1)
				continue
			}

			sem <- struct{}{}
			wg.Add(1)
			go func(key, link, dest string) {
				defer func() { <-sem }()
				defer wg.Done()

				if err := DownloadFile(client, link, dest, stats); err != nil {
					log.Printf("[%s] %s: %v", key, filepath.Base(dest), err)
					stats.Failed.Add(1)
					return
				}
				mu.Lock()
				fetched = append(fetched, dest)
				mu.Unlock()
			}(key, link, dest)
		}
	}

	wg.Wait()
	return fetched
}
