package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// SQLiteLedger records runs and the checkpoint files they wrote. It is an
// operator aid only; the pipeline never reads it to decide what to skip.
type SQLiteLedger struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.Ledger = (*SQLiteLedger)(nil)

// OpenSQLiteLedger opens (or creates) the ledger database at path.
func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	ledger := NewSQLiteLedger(db)
	if err := ledger.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// NewSQLiteLedger wires an already opened sql.DB.
func NewSQLiteLedger(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db, now: time.Now}
}

// Migrate creates the ledger tables when missing.
func (l *SQLiteLedger) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT
	);
	CREATE TABLE IF NOT EXISTS checkpoints (
		path TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		site TEXT,
		coordinate TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		written_at TEXT NOT NULL
	);
	`
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	return nil
}

// Close releases the database.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// StartRun inserts a run row and returns its identifier.
func (l *SQLiteLedger) StartRun(ctx context.Context, command string) (string, error) {
	id := uuid.NewString()

	query, args, err := sq.Insert("runs").
		Columns("run_id", "command", "started_at").
		Values(id, command, l.now().UTC().Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build run insert: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run's completion time.
func (l *SQLiteLedger) FinishRun(ctx context.Context, runID string) error {
	query, args, err := sq.Update("runs").
		Set("finished_at", l.now().UTC().Format(time.RFC3339Nano)).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run update: %w", err)
	}

	res, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %s", runID)
	}
	return nil
}

// RecordCheckpoint upserts the entry keyed by path; a re-run replaces it.
func (l *SQLiteLedger) RecordCheckpoint(ctx context.Context, entry domain.LedgerEntry) error {
	writtenAt := entry.WrittenAt
	if writtenAt.IsZero() {
		writtenAt = l.now()
	}

	query, args, err := sq.Replace("checkpoints").
		Columns("path", "run_id", "kind", "site", "coordinate", "row_count", "written_at").
		Values(entry.Path, entry.RunID, entry.Kind, entry.Site, entry.Coordinate, entry.Rows, writtenAt.UTC().Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build checkpoint upsert: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}
	return nil
}

// Entries lists every recorded checkpoint, oldest first.
func (l *SQLiteLedger) Entries(ctx context.Context) ([]domain.LedgerEntry, error) {
	query, args, err := sq.Select("run_id", "kind", "site", "coordinate", "path", "row_count", "written_at").
		From("checkpoints").
		OrderBy("written_at", "path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build checkpoint select: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checkpoints: %w", err)
	}

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			entry     domain.LedgerEntry
			site      sql.NullString
			writtenAt string
		)
		if err := rows.Scan(&entry.RunID, &entry.Kind, &site, &entry.Coordinate, &entry.Path, &entry.Rows, &writtenAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		entry.Site = site.String
		if ts, err := time.Parse(time.RFC3339Nano, writtenAt); err == nil {
			entry.WrittenAt = ts
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return entries, nil
}
