package archive

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/acfdavis/thermogo/internal/common"
)

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/RSS/jced.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>ThermoML JCED</title>
    <item>
      <title>acs.jced.2014.001</title>
      <link>%s/ThermoML/jced/acs.jced.2014.001.xml</link>
    </item>
    <item>
      <title>acs.jced.2014.002</title>
      <link>%s/ThermoML/jced/acs.jced.2014.002.xml</link>
    </item>
  </channel>
</rss>`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/ThermoML/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<DataReport>%s</DataReport>", filepath.Base(r.URL.Path))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFeed(t *testing.T) {
	srv := feedServer(t)

	links, err := FetchFeed(srv.Client(), srv.URL+"/RSS/jced.xml")
	if err != nil {
		t.Fatalf("fetch feed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if filepath.Base(links[0]) != "acs.jced.2014.001.xml" {
		t.Errorf("unexpected first link: %s", links[0])
	}
}

func TestSyncFeedsDownloadsAndSkips(t *testing.T) {
	srv := feedServer(t)
	root := t.TempDir()
	feeds := map[string]string{"jced": srv.URL + "/RSS/jced.xml"}

	var stats common.TransferStats
	fetched := SyncFeeds(srv.Client(), feeds, root, 2, &stats)
	if len(fetched) != 2 {
		t.Fatalf("expected 2 fetched files, got %d", len(fetched))
	}
	if stats.Completed.Load() != 2 || stats.Failed.Load() != 0 {
		t.Errorf("unexpected stats: completed=%d failed=%d", stats.Completed.Load(), stats.Failed.Load())
	}

	want := filepath.Join(root, "ThermoML", "jced", "acs.jced.2014.001.xml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("feed entry not mirrored at %s: %v", want, err)
	}

	// Second run must be a no-op: everything is already mirrored.
	var again common.TransferStats
	fetched = SyncFeeds(srv.Client(), feeds, root, 2, &again)
	if len(fetched) != 0 {
		t.Errorf("expected no new files, got %v", fetched)
	}
	if again.Skipped.Load() != 2 || again.Completed.Load() != 0 {
		t.Errorf("expected 2 skips, got: skipped=%d completed=%d", again.Skipped.Load(), again.Completed.Load())
	}
}

func TestSyncFeedsCountsFeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var stats common.TransferStats
	fetched := SyncFeeds(srv.Client(), map[string]string{"jct": srv.URL + "/RSS/jct.xml"}, t.TempDir(), 2, &stats)
	if len(fetched) != 0 || stats.Failed.Load() != 1 {
		t.Errorf("expected one failed feed, got fetched=%v failed=%d", fetched, stats.Failed.Load())
	}
}

func TestLocalPath(t *testing.T) {
	root := "/mirror"
	cases := []struct {
		link string
		want string
		err  bool
	}{
		{link: "https://trc.nist.gov/ThermoML/jced/a.xml", want: filepath.Join(root, "ThermoML", "jced", "a.xml")},
		{link: "https://trc.nist.gov/a.xml", want: filepath.Join(root, "a.xml")},
		{link: "https://trc.nist.gov/", err: true},
		// path.Clean resolves the leading dot-dot before mapping.
		{link: "https://trc.nist.gov/../a.xml", want: filepath.Join(root, "a.xml")},
	}
	for _, tc := range cases {
		got, err := localPath(root, tc.link)
		if tc.err {
			if err == nil {
				t.Errorf("localPath(%q): expected error, got %q", tc.link, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("localPath(%q): %v", tc.link, err)
			continue
		}
		if got != tc.want {
			t.Errorf("localPath(%q) = %q, want %q", tc.link, got, tc.want)
		}
	}
}
