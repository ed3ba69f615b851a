package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const tableLoadRuns = "load_runs"

var loadRunColumns = []string{
	"run_id", "source", "encoding",
	"lines", "inserted", "duplicates", "skipped",
	"started_at_unix_ms", "ended_at_unix_ms",
}

// RecordLoadRun stores the summary of one load run.
func (s *SQLiteStore) RecordLoadRun(ctx context.Context, run *LoadRun) error {
	if run == nil {
		return errors.New("load run cannot be nil")
	}
	if run.RunID == "" {
		return errors.New("run_id is required")
	}

	query, args, err := sq.Insert(tableLoadRuns).
		Columns(loadRunColumns...).
		Values(
			run.RunID, run.Source, run.Encoding,
			run.Lines, run.Inserted, run.Duplicates, run.Skipped,
			run.StartedAtUnixMs, run.EndedAtUnixMs,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load run insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("load run %s already recorded", run.RunID)
		}
		return fmt.Errorf("failed to record load run: %w", err)
	}
	return nil
}

// LastLoadRuns returns the most recent load runs, newest first.
func (s *SQLiteStore) LastLoadRuns(ctx context.Context, limit int) ([]LoadRun, error) {
	b := sq.Select(loadRunColumns...).
		From(tableLoadRuns).
		OrderBy("started_at_unix_ms DESC", "run_id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build load run query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query load runs: %w", err)
	}
	defer rows.Close()

	var runs []LoadRun
	for rows.Next() {
		run, err := scanLoadRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load runs: %w", err)
	}
	return runs, nil
}

func scanLoadRun(row scanner) (LoadRun, error) {
	var r LoadRun
	err := row.Scan(
		&r.RunID, &r.Source, &r.Encoding,
		&r.Lines, &r.Inserted, &r.Duplicates, &r.Skipped,
		&r.StartedAtUnixMs, &r.EndedAtUnixMs,
	)
	if err != nil {
		return LoadRun{}, fmt.Errorf("failed to scan load run: %w", err)
	}
	return r, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
