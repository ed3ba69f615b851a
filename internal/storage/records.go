package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const tableText = "text"

var textColumns = []string{"row_id", "hash", "word", "klass", "description"}

// InsertRows inserts rows in one transaction. Rows whose row id is already
// stored are ignored, so loading the same file twice is a no-op.
// Returns the number of rows actually inserted.
func (s *SQLiteStore) InsertRows(ctx context.Context, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query, _, err := sq.Insert(tableText).
		Options("OR IGNORE").
		Columns(textColumns...).
		Values(make([]interface{}, len(textColumns))...).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.RowID, r.Hash, r.Word, r.Klass, r.Desc)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// HashPage returns the next page of distinct headword identities after
// q.After in ascending order.
func (s *SQLiteStore) HashPage(ctx context.Context, q HashQuery) ([]string, error) {
	b := sq.Select("DISTINCT hash").From(tableText).OrderBy("hash")
	if q.After != "" {
		b = b.Where(sq.Gt{"hash": q.After})
	}
	if q.Prefix != "" {
		b = b.Where(prefixPredicate(q.Prefix))
	}
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build hash query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hashes: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan hash: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hashes: %w", err)
	}
	return hashes, nil
}

// RowsByHash returns every row of one headword in insertion order.
// Returns ErrNotFound when the identity has no rows.
func (s *SQLiteStore) RowsByHash(ctx context.Context, hash string) ([]Row, error) {
	query, args, err := sq.Select(textColumns...).
		From(tableText).
		Where(sq.Eq{"hash": hash}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build row query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RowID, &r.Hash, &r.Word, &r.Klass, &r.Desc); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// CountRows returns the number of stored rows.
func (s *SQLiteStore) CountRows(ctx context.Context) (int64, error) {
	return s.count(ctx, sq.Select("COUNT(*)").From(tableText))
}

// CountHashes returns the number of distinct headword identities, optionally
// restricted to those starting with prefix.
func (s *SQLiteStore) CountHashes(ctx context.Context, prefix string) (int64, error) {
	b := sq.Select("COUNT(DISTINCT hash)").From(tableText)
	if prefix != "" {
		b = b.Where(prefixPredicate(prefix))
	}
	return s.count(ctx, b)
}

func (s *SQLiteStore) count(ctx context.Context, b sq.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

// ClassCounts returns the most frequent class labels, most frequent first.
func (s *SQLiteStore) ClassCounts(ctx context.Context, limit int) ([]ClassCount, error) {
	b := sq.Select("klass", "COUNT(*) AS n").
		From(tableText).
		GroupBy("klass").
		OrderBy("n DESC", "klass")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build class query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var out []ClassCount
	for rows.Next() {
		var c ClassCount
		if err := rows.Scan(&c.Klass, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan class count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func prefixPredicate(prefix string) sq.Sqlizer {
	return sq.Expr("substr(hash, 1, ?) = ?", len(prefix), prefix)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
