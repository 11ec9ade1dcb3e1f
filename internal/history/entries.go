package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Status is the outcome of processing one source file.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

// Entry is one journal row.
type Entry struct {
	ID            int64
	RunID         string
	SourceFile    string
	Identifier    string
	Status        Status
	SourceRows    int
	OutputRows    int
	ExceptionRows int
	OutputPath    string
	ExceptionPath string
	ArchivePath   string
	ErrorKind     string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns how long processing took.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.IsZero() || e.StartedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

const entryColumns = `id, run_id, source_file, identifier, status,
    source_rows, output_rows, exception_rows,
    output_path, exception_path, archive_path,
    error_kind, error_message, started_at, finished_at`

// Record appends entry and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = entry.FinishedAt
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (
            run_id, source_file, identifier, status,
            source_rows, output_rows, exception_rows,
            output_path, exception_path, archive_path,
            error_kind, error_message, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.SourceFile,
		entry.Identifier,
		string(entry.Status),
		entry.SourceRows,
		entry.OutputRows,
		entry.ExceptionRows,
		entry.OutputPath,
		entry.ExceptionPath,
		entry.ArchivePath,
		entry.ErrorKind,
		entry.ErrorMessage,
		entry.StartedAt.UTC().Format(time.RFC3339Nano),
		entry.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("history entry id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM runs ORDER BY finished_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// PeriodProcessed returns the most recent successful entry for identifier,
// or nil when it has never completed.
func (s *Store) PeriodProcessed(ctx context.Context, identifier string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM runs WHERE identifier = ? AND status = ? ORDER BY finished_at DESC, id DESC LIMIT 1",
		identifier, string(StatusProcessed))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry    Entry
		status   string
		started  string
		finished string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.SourceFile,
		&entry.Identifier,
		&status,
		&entry.SourceRows,
		&entry.OutputRows,
		&entry.ExceptionRows,
		&entry.OutputPath,
		&entry.ExceptionPath,
		&entry.ArchivePath,
		&entry.ErrorKind,
		&entry.ErrorMessage,
		&started,
		&finished,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}
	entry.Status = Status(status)
	entry.StartedAt = parseTime(started)
	entry.FinishedAt = parseTime(finished)
	return entry, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
