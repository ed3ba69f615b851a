// Package storage provides the SQLite row store for dictionary records.
// Rows are written once by the loader and read back grouped by headword
// identity for export.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all storage operations.
type Store interface {
	// Records
	InsertRows(ctx context.Context, rows []Row) (int, error)
	HashPage(ctx context.Context, q HashQuery) ([]string, error)
	RowsByHash(ctx context.Context, hash string) ([]Row, error)

	// Statistics
	CountRows(ctx context.Context) (int64, error)
	CountHashes(ctx context.Context, prefix string) (int64, error)
	ClassCounts(ctx context.Context, limit int) ([]ClassCount, error)

	// Load runs
	RecordLoadRun(ctx context.Context, run *LoadRun) error
	LastLoadRuns(ctx context.Context, limit int) ([]LoadRun, error)

	// Lifecycle
	Close() error
}

// Row is one stored source line.
type Row struct {
	RowID string // identity of the raw source line
	Hash  string // identity of the headword
	Word  string
	Klass string
	Desc  string
}

// HashQuery selects one page of distinct headword identities in ascending
// order.
type HashQuery struct {
	// After is an exclusive lower bound; empty starts from the beginning.
	After string

	// Prefix keeps only identities starting with it; empty keeps all.
	Prefix string

	// Limit is the page size. Zero means no limit.
	Limit int
}

// ClassCount is the number of rows carrying one class label.
type ClassCount struct {
	Klass string
	Count int64
}

// LoadRun records one execution of the loader.
type LoadRun struct {
	RunID           string
	Source          string
	Encoding        string
	Lines           int64
	Inserted        int64
	Duplicates      int64
	Skipped         int64
	StartedAtUnixMs int64
	EndedAtUnixMs   int64
}
