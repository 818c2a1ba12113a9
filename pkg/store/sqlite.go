package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/floorplan/pkg/placement"
)

// DefaultSQLitePath is the database file used when none is configured.
const DefaultSQLitePath = "output/floorplan.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS placements (
	project  TEXT NOT NULL,
	design   TEXT NOT NULL,
	revision TEXT NOT NULL,
	saved_at TEXT NOT NULL,
	blocks   INTEGER NOT NULL,
	body     TEXT NOT NULL,
	PRIMARY KEY (project, design)
)`

// SQLiteStore keeps placements in a local SQLite database, one row per
// design. The body column holds the placement JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, storeError(BackendSQLite, err, "open %s", path)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, storeError(BackendSQLite, err, "migrate %s", path)
	}
	return &SQLiteStore{db: db}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var (
		revision, savedAt, body string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT revision, saved_at, body FROM placements WHERE project = ? AND design = ?`,
		key.Project, key.Design,
	).Scan(&revision, &savedAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(BackendSQLite, err, "load %s", key)
	}

	doc, err := decodeRecords(key, []byte(body))
	if err != nil {
		return nil, err
	}
	doc.Revision = revision
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		doc.SavedAt = t
	}
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc *placement.Document) error {
	if err := validateKey(doc.Key); err != nil {
		return err
	}
	body, err := encodeRecords(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO placements (project, design, revision, saved_at, blocks, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (project, design) DO UPDATE SET
			revision = excluded.revision,
			saved_at = excluded.saved_at,
			blocks   = excluded.blocks,
			body     = excluded.body`,
		doc.Key.Project, doc.Key.Design, doc.Revision,
		doc.SavedAt.UTC().Format(time.RFC3339Nano), doc.Len(), string(body),
	)
	if err != nil {
		return storeError(BackendSQLite, err, "save %s", doc.Key)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key placement.Key) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM placements WHERE project = ? AND design = ?`, key.Project, key.Design); err != nil {
		return storeError(BackendSQLite, err, "delete %s", key)
	}
	return nil
}

// List returns the stored keys of project, ordered by design name.
func (s *SQLiteStore) List(ctx context.Context, project string) ([]placement.Key, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT design FROM placements WHERE project = ? ORDER BY design`, project)
	if err != nil {
		return nil, storeError(BackendSQLite, err, "list %s", project)
	}
	defer rows.Close()

	var keys []placement.Key
	for rows.Next() {
		var design string
		if err := rows.Scan(&design); err != nil {
			return nil, storeError(BackendSQLite, err, "list %s", project)
		}
		keys = append(keys, placement.Key{Project: project, Design: design})
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(BackendSQLite, err, "list %s", project)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
