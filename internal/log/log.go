// Package log provides JSON-lines structured logging for eijiro.
//
// Every record is one JSON object per line:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"load finished","run_id":"…","inserted":12}
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// DebugEnv forces debug logging when set to "1".
const DebugEnv = "EIJIRO_DEBUG"

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a new JSON-lines structured logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// NewFromEnv creates a logger at the given level name.
// EIJIRO_DEBUG=1 enables debug logging regardless of level.
func NewFromEnv(output io.Writer, level string) *slog.Logger {
	cfg := DefaultConfig()
	if output != nil {
		cfg.Output = output
	}
	cfg.Level = ParseLevel(level)
	if os.Getenv(DebugEnv) == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level is a recognized level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// LogLoadStarted logs the start of a load run.
func LogLoadStarted(logger *slog.Logger, runID, source, encoding string) {
	logger.Info("load started",
		"run_id", runID,
		"source", source,
		"encoding", encoding,
	)
}

// LogLoadProgress logs periodic load progress.
func LogLoadProgress(logger *slog.Logger, runID string, lines, inserted int64) {
	logger.Info("load progress",
		"run_id", runID,
		"lines", lines,
		"inserted", inserted,
	)
}

// LogLineSkipped logs a line that is not a record.
func LogLineSkipped(logger *slog.Logger, runID string, lineNo int64, reason error) {
	logger.Debug("line skipped",
		"run_id", runID,
		"line", lineNo,
		"reason", reason,
	)
}

// LogLoadFinished logs the totals of a load run.
func LogLoadFinished(logger *slog.Logger, runID string, lines, inserted, duplicates, skipped, total int64, durationMs int64) {
	logger.Info("load finished",
		"run_id", runID,
		"lines", lines,
		"inserted", inserted,
		"duplicates", duplicates,
		"skipped", skipped,
		"total", total,
		"duration_ms", durationMs,
	)
}

// LogExportStarted logs the start of an export.
func LogExportStarted(logger *slog.Logger, dest string, sample bool, workers int) {
	logger.Info("export started",
		"dest", dest,
		"sample", sample,
		"workers", workers,
	)
}

// LogExportFinished logs the totals of an export.
func LogExportFinished(logger *slog.Logger, dest string, hashes, entries, suppressed int64, durationMs int64) {
	logger.Info("export finished",
		"dest", dest,
		"hashes", hashes,
		"entries", entries,
		"suppressed", suppressed,
		"duration_ms", durationMs,
	)
}

// LogSQLiteError logs SQLite errors.
func LogSQLiteError(logger *slog.Logger, operation string, err error) {
	logger.Error("sqlite error", "operation", operation, "error", err)
}

// LogConfigLoaded logs the configuration file in use.
func LogConfigLoaded(logger *slog.Logger, configPath, databasePath string) {
	logger.Debug("configuration loaded",
		"config_path", configPath,
		"database_path", databasePath,
	)
}
