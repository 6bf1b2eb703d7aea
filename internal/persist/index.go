package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"terramesh/internal/geom"
)

// Index is a SQLite registry of chunk snapshot files, keyed by origin.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if necessary) the snapshot index at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	ox INTEGER NOT NULL,
	oy INTEGER NOT NULL,
	oz INTEGER NOT NULL,
	path TEXT NOT NULL,
	surfaces INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (ox, oy, oz)
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Record registers (or replaces) the snapshot for a chunk origin.
func (ix *Index) Record(origin geom.Vec3i, path string, surfaces int) error {
	_, err := ix.db.Exec(
		`INSERT OR REPLACE INTO chunks (ox, oy, oz, path, surfaces, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		origin.X, origin.Y, origin.Z, path, surfaces, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Lookup returns the snapshot path recorded for an origin, if any.
func (ix *Index) Lookup(origin geom.Vec3i) (string, bool, error) {
	var path string
	err := ix.db.QueryRow(
		`SELECT path FROM chunks WHERE ox = ? AND oy = ? AND oz = ?`,
		origin.X, origin.Y, origin.Z,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Count returns the number of indexed snapshots.
func (ix *Index) Count() (int, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}
