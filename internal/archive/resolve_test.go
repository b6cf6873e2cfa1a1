package archive

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveSourcePartialRecord(t *testing.T) {
	// A record without version or distribution keeps the pinned URL and
	// version but picks up the issued date.
	srv := jsonServer(t, "application/json", `{"title": "partial", "issued": "2019-06-01"}`)

	src, err := ResolveSource(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	if src.URL != FallbackArchiveURL {
		t.Errorf("URL = %q, want pinned fallback", src.URL)
	}
	if src.Version != FallbackVersion {
		t.Errorf("Version = %q, want %q", src.Version, FallbackVersion)
	}
	if src.RevisionDate != "2019-06-01" {
		t.Errorf("RevisionDate = %q, want 2019-06-01", src.RevisionDate)
	}
	if len(src.Metadata) == 0 {
		t.Error("Metadata should hold the raw record")
	}
}

func TestResolveSourceModifiedWinsOverIssued(t *testing.T) {
	srv := jsonServer(t, "application/json; charset=utf-8",
		`{"issued": "2019-06-01", "modified": "2022-03-15T08:30:00.000"}`)

	src, err := ResolveSource(srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}
	if src.RevisionDate != "2022-03-15" {
		t.Errorf("RevisionDate = %q, want 2022-03-15", src.RevisionDate)
	}
}

func TestResolveSourceRejectsWrongContentType(t *testing.T) {
	srv := jsonServer(t, "text/html", `{"version": "v1"}`)

	if _, err := ResolveSource(srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error for non-JSON content type")
	}
}

func TestResolveSourceRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := ResolveSource(srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}
