// Package storage keeps a local SQLite snapshot of raw upstream records so
// matrices can be rebuilt offline.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrNotFound = errors.New("not found")

// ImportRun describes one completed import of a file into the snapshot.
type ImportRun struct {
	ID         string
	Kind       string
	SourceFile string
	Rows       int
	ImportedAt time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS employees (
	identity_key TEXT PRIMARY KEY,
	identity TEXT NOT NULL,
	numeric_id TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS employees_numeric_id ON employees(numeric_id);

CREATE TABLE IF NOT EXISTS attendance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id TEXT NOT NULL,
	day TEXT NOT NULL,
	entry_time TEXT NOT NULL DEFAULT '',
	exit_time TEXT NOT NULL DEFAULT '',
	UNIQUE(employee_id, day, entry_time, exit_time)
);

CREATE TABLE IF NOT EXISTS leave_ranges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL CHECK(kind IN ('vacation', 'medical_leave')),
	employee_id TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT '',
	UNIQUE(kind, employee_id, start_date, end_date)
);

CREATE TABLE IF NOT EXISTS home_office (
	employee_key TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	day TEXT NOT NULL,
	entry_time TEXT NOT NULL DEFAULT '',
	exit_time TEXT NOT NULL DEFAULT '',
	PRIMARY KEY(employee_key, day)
);

CREATE TABLE IF NOT EXISTS leave_owners (
	leave_employee_id TEXT PRIMARY KEY,
	identity TEXT NOT NULL,
	identity_key TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS imports (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	source_file TEXT NOT NULL,
	row_count INTEGER NOT NULL CHECK(row_count >= 0),
	imported_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordImport stores an import run and returns its generated id.
func (s *SQLiteStore) RecordImport(ctx context.Context, kind, sourceFile string, rows int) (ImportRun, error) {
	run := ImportRun{
		ID:         uuid.NewString(),
		Kind:       kind,
		SourceFile: sourceFile,
		Rows:       rows,
		ImportedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (id, kind, source_file, row_count, imported_at) VALUES (?, ?, ?, ?, ?);`,
		run.ID, run.Kind, run.SourceFile, run.Rows, run.ImportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return ImportRun{}, fmt.Errorf("record import: %w", err)
	}
	return run, nil
}

// LastImport returns the most recent import of kind, ErrNotFound if none.
func (s *SQLiteStore) LastImport(ctx context.Context, kind string) (ImportRun, error) {
	const query = `
SELECT id, kind, source_file, row_count, imported_at
FROM imports
WHERE kind = ?
ORDER BY imported_at DESC, rowid DESC
LIMIT 1;`

	var (
		run         ImportRun
		importedRaw string
	)
	err := s.db.QueryRowContext(ctx, query, kind).Scan(&run.ID, &run.Kind, &run.SourceFile, &run.Rows, &importedRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ImportRun{}, fmt.Errorf("last %s import: %w", kind, ErrNotFound)
		}
		return ImportRun{}, fmt.Errorf("query last %s import: %w", kind, err)
	}
	run.ImportedAt, err = time.Parse(time.RFC3339, importedRaw)
	if err != nil {
		return ImportRun{}, fmt.Errorf("parse import time %q: %w", importedRaw, err)
	}
	return run, nil
}

// Counts returns the number of stored rows per snapshot table.
func (s *SQLiteStore) Counts(ctx context.Context) (map[string]int, error) {
	tables := []string{"employees", "attendance", "leave_ranges", "home_office", "leave_owners", "imports"}
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+`;`).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
