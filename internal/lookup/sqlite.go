package lookup

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ledgerconv/internal/textutil"
)

//go:embed schema.sql
var schemaSQL string

// queryChunk keeps IN lists well below SQLite's variable limit.
const queryChunk = 500

// ErrMissingTable indicates the database has no persons table.
var ErrMissingTable = errors.New("directory database has no persons table")

// SQLiteDirectory looks people up in a read-only SQLite database.
type SQLiteDirectory struct {
	db      *sql.DB
	path    string
	timeout time.Duration
}

// OpenSQLite opens the directory at path read-only. Each lookup is bounded by
// timeout when it is positive.
func OpenSQLite(path string, timeout time.Duration) (*SQLiteDirectory, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open directory db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open directory db %s: %w", path, err)
	}

	var tables int
	if err := db.QueryRow(
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='persons'",
	).Scan(&tables); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("inspect directory db %s: %w", path, err)
	}
	if tables == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrMissingTable)
	}
	return &SQLiteDirectory{db: db, path: path, timeout: timeout}, nil
}

// Close closes the underlying database connection.
func (d *SQLiteDirectory) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Path returns the database location.
func (d *SQLiteDirectory) Path() string {
	return d.path
}

// LookupByTaxID matches ids by their digits, so 12-3456789 and 123456789
// resolve to the same entry.
func (d *SQLiteDirectory) LookupByTaxID(ctx context.Context, taxIDs []string) ([]Person, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	ids := uniqueDigits(taxIDs)
	var people []Person
	for start := 0; start < len(ids); start += queryChunk {
		end := min(start+queryChunk, len(ids))
		found, err := d.query(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		people = append(people, found...)
	}
	return people, nil
}

func (d *SQLiteDirectory) query(ctx context.Context, ids []string) ([]Person, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := d.db.QueryContext(ctx,
		"SELECT ssn, first_name, mid_name, last_name FROM persons WHERE ssn IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.TaxID, &p.FirstName, &p.MiddleName, &p.LastName); err != nil {
			return nil, fmt.Errorf("scan directory row: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory rows: %w", err)
	}
	return people, nil
}

// Import creates the directory at path when needed and upserts people.
// Tax identifiers are stored as digits only.
func Import(ctx context.Context, path string, people []Person) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("open directory db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return 0, fmt.Errorf("create directory schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO persons (ssn, first_name, mid_name, last_name, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(ssn) DO UPDATE SET
            first_name = excluded.first_name,
            mid_name = excluded.mid_name,
            last_name = excluded.last_name,
            updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	imported := 0
	for _, p := range people {
		id := textutil.DigitsOnly(p.TaxID)
		if id == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id,
			strings.TrimSpace(p.FirstName),
			strings.TrimSpace(p.MiddleName),
			strings.TrimSpace(p.LastName),
			now,
		); err != nil {
			return imported, fmt.Errorf("import %s: %w", id, err)
		}
		imported++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return imported, nil
}

func uniqueDigits(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		digits := textutil.DigitsOnly(id)
		if digits == "" {
			continue
		}
		if _, ok := seen[digits]; ok {
			continue
		}
		seen[digits] = struct{}{}
		out = append(out, digits)
	}
	return out
}
