// Package catalog maintains a SQLite index of the mirrored archive
// files: path, size, content hash, and timestamps. The index lets the
// table builder enumerate files without rescanning the directory tree
// and makes repeated mirror updates auditable.
package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	path        TEXT PRIMARY KEY,
	size        INTEGER NOT NULL,
	sha256      TEXT NOT NULL,
	mtime       TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
`

// Entry is one cataloged mirror file.
type Entry struct {
	Path       string
	Size       int64
	SHA256     string
	ModTime    time.Time
	RecordedAt time.Time
}

// Catalog is the mirror file index at <root>/catalog.db.
type Catalog struct {
	db   *sql.DB
	root string
}

// Open creates or opens the catalog database for the given mirror root.
func Open(root string) (*Catalog, error) {
	db, err := sql.Open("sqlite", filepath.Join(root, "catalog.db"))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{db: db, root: abs}, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// RecordFile upserts one mirror file, keyed by its path relative to the
// mirror root. Re-recording an unchanged file is a no-op apart from the
// recorded_at timestamp.
func (c *Catalog) RecordFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(c.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%s is outside the mirror root", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	sum, err := hashFile(abs)
	if err != nil {
		return err
	}

	_, err = c.db.Exec(`
		INSERT INTO files (path, size, sha256, mtime, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			sha256 = excluded.sha256,
			mtime = excluded.mtime,
			recorded_at = excluded.recorded_at`,
		filepath.ToSlash(rel),
		info.Size(),
		sum,
		info.ModTime().UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Files returns the cataloged entries whose relative path starts with
// prefix ("" for all), ordered by path. Paths are returned absolute.
func (c *Catalog) Files(prefix string) ([]Entry, error) {
	rows, err := c.db.Query(
		`SELECT path, size, sha256, mtime, recorded_at FROM files WHERE path LIKE ? ORDER BY path`,
		prefix+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var rel, mtime, recorded string
		if err := rows.Scan(&rel, &e.Size, &e.SHA256, &mtime, &recorded); err != nil {
			return nil, err
		}
		e.Path = filepath.Join(c.root, filepath.FromSlash(rel))
		e.ModTime, _ = time.Parse(time.RFC3339, mtime)
		e.RecordedAt, _ = time.Parse(time.RFC3339, recorded)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of cataloged files.
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n)
	return n, err
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
