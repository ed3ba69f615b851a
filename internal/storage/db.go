package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	elog "github.com/runger/eijiro/internal/log"
)

const (
	// walCheckpointInterval is how often we checkpoint the WAL file
	// to keep it bounded during long loads.
	walCheckpointInterval = 5 * time.Minute

	defaultBusyTimeoutMs = 5000
)

// Options configure a SQLiteStore.
type Options struct {
	// BusyTimeoutMs is the SQLite busy timeout (default 5000).
	BusyTimeoutMs int

	// MaxOpenConns bounds the connection pool (default 1). Concurrent
	// readers need one connection each.
	MaxOpenConns int

	// Logger receives background errors (default: discard).
	Logger *slog.Logger
}

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	logger    *slog.Logger
	stopCh    chan struct{} // signals background goroutines to stop
	stoppedCh chan struct{} // signals background goroutines have stopped
	closeOnce sync.Once     // ensures Close() is idempotent
	closeErr  error         // stores the error from Close()
}

// NewSQLiteStore opens or creates the database at dbPath.
// The database is opened with WAL mode enabled so exporters can read
// concurrently.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("database path is required")
	}
	if opts.BusyTimeoutMs <= 0 {
		opts.BusyTimeoutMs = defaultBusyTimeoutMs
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 1
	}
	if opts.Logger == nil {
		opts.Logger = elog.Discard()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		dbPath, opts.BusyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{
		db:        db,
		logger:    opts.Logger,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}

	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	go store.walCheckpointLoop()

	return store, nil
}

// Close closes the database connection.
// It is safe to call Close multiple times.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			<-s.stoppedCh
		}

		if s.db != nil {
			// merge the WAL into the main database file
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

// DB returns the underlying database connection for advanced use cases.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) walCheckpointLoop() {
	defer close(s.stoppedCh)

	ticker := time.NewTicker(walCheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
				elog.LogSQLiteError(s.logger, "wal_checkpoint", err)
			}
		}
	}
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `
		SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1
	`).Scan(&v)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) && !isTableNotFoundError(err) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms)
			VALUES (?, ?)
		`, m.version, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "no such table")
}

// migrationV1 creates the initial schema.
const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix_ms INTEGER NOT NULL
);

-- One row per physical source line
CREATE TABLE IF NOT EXISTS text (
  row_id TEXT PRIMARY KEY,
  hash TEXT NOT NULL,
  word TEXT NOT NULL,
  klass TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS texthash ON text(hash);

CREATE TABLE IF NOT EXISTS load_runs (
  run_id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  encoding TEXT NOT NULL DEFAULT '',
  lines INTEGER NOT NULL DEFAULT 0,
  inserted INTEGER NOT NULL DEFAULT 0,
  duplicates INTEGER NOT NULL DEFAULT 0,
  skipped INTEGER NOT NULL DEFAULT 0,
  started_at_unix_ms INTEGER NOT NULL,
  ended_at_unix_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_load_runs_started ON load_runs(started_at_unix_ms DESC);
`
