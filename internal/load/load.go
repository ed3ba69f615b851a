// Package load reads Eijiro flat-text dictionaries into the row store.
package load

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/runger/eijiro/internal/entry"
	elog "github.com/runger/eijiro/internal/log"
	"github.com/runger/eijiro/internal/storage"
	"github.com/runger/eijiro/internal/wordutil"
)

const (
	// DefaultBatchSize is the number of rows inserted per transaction.
	DefaultBatchSize = 1000

	// DefaultProgressEvery is the line interval between progress logs.
	DefaultProgressEvery = 10000

	maxLineBytes = 1024 * 1024
)

// ErrLineTooLong is reported for lines over 1 MiB. They are skipped like
// lines that are not records.
var ErrLineTooLong = errors.New("line exceeds 1 MiB")

// ryakuRe matches an abbreviation definition " : ＝X●" or " : ＝X◆".
var ryakuRe = regexp.MustCompile(`\s:\s＝(.+?)([●◆])`)

// Store is the subset of storage the loader writes to.
type Store interface {
	InsertRows(ctx context.Context, rows []storage.Row) (int, error)
	CountRows(ctx context.Context) (int64, error)
	RecordLoadRun(ctx context.Context, run *storage.LoadRun) error
}

// Options configure a Loader.
type Options struct {
	// Source names the input in the load run record.
	Source string

	// Encoding is the input character set label, e.g. "shift_jis".
	// Empty or "utf-8" reads the input as is.
	Encoding string

	// BatchSize is the number of rows per transaction.
	BatchSize int

	// Ryaku rewrites abbreviation definitions into cross-references.
	Ryaku bool

	// ProgressEvery is the line interval between progress logs.
	ProgressEvery int64

	Logger *slog.Logger
}

// Result summarizes one load run.
type Result struct {
	RunID      string
	Lines      int64 // lines read
	Inserted   int64 // new rows
	Duplicates int64 // rows already stored
	Skipped    int64 // lines that are not records
	Total      int64 // rows in the store afterwards
}

// Loader parses source lines and inserts them as rows.
type Loader struct {
	store Store
	opts  Options
}

// New creates a Loader writing to store.
func New(store Store, opts Options) *Loader {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if opts.Logger == nil {
		opts.Logger = elog.Discard()
	}
	if opts.Source == "" {
		opts.Source = "-"
	}
	return &Loader{store: store, opts: opts}
}

// Run reads every line of r, stores the records and records the run.
// Lines that are not records or exceed 1 MiB are counted and skipped. Storage
// errors abort the run; rows of already committed batches stay stored.
func (l *Loader) Run(ctx context.Context, r io.Reader) (Result, error) {
	started := time.Now()
	res := Result{RunID: uuid.New().String()}
	logger := l.opts.Logger

	in, err := Decode(r, l.opts.Encoding)
	if err != nil {
		return res, err
	}

	elog.LogLoadStarted(logger, res.RunID, l.opts.Source, l.opts.Encoding)

	reader := bufio.NewReaderSize(in, 64*1024)
	var buf []byte

	batch := make([]storage.Row, 0, l.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.store.InsertRows(ctx, batch)
		if err != nil {
			elog.LogSQLiteError(logger, "insert", err)
			return fmt.Errorf("failed to insert batch: %w", err)
		}
		res.Inserted += int64(n)
		res.Duplicates += int64(len(batch) - n)
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var long bool
		buf, long, err = readLine(reader, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("failed to read input: %w", err)
		}

		res.Lines++
		if long {
			res.Skipped++
			elog.LogLineSkipped(logger, res.RunID, res.Lines, ErrLineTooLong)
			continue
		}
		line := strings.TrimSuffix(string(buf), "\r")

		row, err := l.parse(line)
		if err != nil {
			if errors.Is(err, entry.ErrNotARecord) {
				res.Skipped++
				elog.LogLineSkipped(logger, res.RunID, res.Lines, err)
				continue
			}
			return res, err
		}

		batch = append(batch, row)
		if len(batch) >= l.opts.BatchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
		if res.Lines%l.opts.ProgressEvery == 0 {
			elog.LogLoadProgress(logger, res.RunID, res.Lines, res.Inserted)
		}
	}
	if err := flush(); err != nil {
		return res, err
	}

	total, err := l.store.CountRows(ctx)
	if err != nil {
		return res, err
	}
	res.Total = total

	ended := time.Now()
	err = l.store.RecordLoadRun(ctx, &storage.LoadRun{
		RunID:           res.RunID,
		Source:          l.opts.Source,
		Encoding:        l.opts.Encoding,
		Lines:           res.Lines,
		Inserted:        res.Inserted,
		Duplicates:      res.Duplicates,
		Skipped:         res.Skipped,
		StartedAtUnixMs: started.UnixMilli(),
		EndedAtUnixMs:   ended.UnixMilli(),
	})
	if err != nil {
		return res, err
	}

	elog.LogLoadFinished(logger, res.RunID, res.Lines, res.Inserted, res.Duplicates, res.Skipped, res.Total,
		ended.Sub(started).Milliseconds())
	return res, nil
}

// readLine returns the next line of r without its terminator, reusing buf.
// long is true for a line over maxLineBytes; its bytes are drained and
// dropped. io.EOF is returned once no line is left.
func readLine(r *bufio.Reader, buf []byte) (line []byte, long bool, err error) {
	buf = buf[:0]
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return buf, long, err
		}
		if !long {
			if len(buf)+len(chunk) > maxLineBytes {
				long = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return buf, long, nil
		}
	}
}

func (l *Loader) parse(line string) (storage.Row, error) {
	parsed := line
	if l.opts.Ryaku {
		parsed = RewriteRyaku(line)
	}
	f, err := entry.ParseLine(parsed)
	if err != nil {
		return storage.Row{}, err
	}
	return NewRow(line, f), nil
}

// NewRow builds the stored row for a source line. The row id is derived from
// the raw line so every physical line is stored once.
func NewRow(line string, f entry.Fields) storage.Row {
	return storage.Row{
		RowID: wordutil.RowID(line),
		Hash:  wordutil.Identity(f.Word),
		Word:  f.Word,
		Klass: f.Klass,
		Desc:  f.Desc,
	}
}

// RewriteRyaku turns " : ＝X●" and " : ＝X◆" into cross-reference syntax so
// abbreviations link to their expansion.
func RewriteRyaku(line string) string {
	return ryakuRe.ReplaceAllString(line, " : ＝<→${1}>${2}")
}

// Decode wraps r with a decoder for the named character set.
func Decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	}
	e, name := charset.Lookup(encoding)
	if e == nil {
		return nil, fmt.Errorf("unknown encoding %q", encoding)
	}
	if name == "utf-8" {
		return r, nil
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

// ValidEncoding reports whether encoding names a supported character set.
func ValidEncoding(encoding string) bool {
	_, err := Decode(strings.NewReader(""), encoding)
	return err == nil
}
