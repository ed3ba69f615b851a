// Package export renders stored records as an Apple Dictionary XML document.
package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runger/eijiro/internal/chunk"
	"github.com/runger/eijiro/internal/entry"
	elog "github.com/runger/eijiro/internal/log"
	"github.com/runger/eijiro/internal/storage"
	"github.com/runger/eijiro/internal/wordutil"
)

// Header opens the dictionary document.
const Header = "<?xml version='1.0' encoding='UTF-8'?>\n" +
	"<d:dictionary xmlns='http://www.w3.org/1999/xhtml' xmlns:d='http://www.apple.com/DTDs/DictionaryService-1.0.rng'>\n"

// Footer closes the dictionary document.
const Footer = "</d:dictionary>\n"

// SamplePrefix selects roughly 1/256 of all headwords when sampling.
const SamplePrefix = "00"

// StdoutPath makes ToFile write to standard output.
const StdoutPath = "-"

const (
	// DefaultMaxHeadwordBytes is the dictionary build tool's limit: longer
	// headwords are dropped.
	DefaultMaxHeadwordBytes = 320

	DefaultPageSize = 512
	DefaultWorkers  = 4
)

// Source is the subset of storage the exporter reads from.
type Source interface {
	HashPage(ctx context.Context, q storage.HashQuery) ([]string, error)
	RowsByHash(ctx context.Context, hash string) ([]storage.Row, error)
}

// Options configure an Exporter.
type Options struct {
	// Workers bounds the number of headwords rendered concurrently.
	Workers int

	// PageSize is the number of headword identities fetched per query.
	PageSize int

	// Sample exports only identities starting with SamplePrefix.
	Sample bool

	// MaxHeadwordBytes drops records whose headword is at least this long.
	MaxHeadwordBytes int

	// ShowReading includes the kana reading in entries.
	ShowReading bool

	Logger *slog.Logger
}

// Result summarizes one export.
type Result struct {
	Hashes     int64 // identities visited
	Entries    int64 // entry blocks written
	Suppressed int64 // identities without a renderable record
}

// Exporter writes dictionary documents.
type Exporter struct {
	src  Source
	opts Options
}

// New creates an Exporter reading from src.
func New(src Source, opts Options) *Exporter {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxHeadwordBytes <= 0 {
		opts.MaxHeadwordBytes = DefaultMaxHeadwordBytes
	}
	if opts.Logger == nil {
		opts.Logger = elog.Discard()
	}
	return &Exporter{src: src, opts: opts}
}

// Run writes the whole document to w. Entries appear in ascending identity
// order regardless of the number of workers.
func (e *Exporter) Run(ctx context.Context, w io.Writer) (Result, error) {
	var res Result
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Header); err != nil {
		return res, fmt.Errorf("failed to write header: %w", err)
	}

	q := storage.HashQuery{Limit: e.opts.PageSize}
	if e.opts.Sample {
		q.Prefix = SamplePrefix
	}

	for {
		hashes, err := e.src.HashPage(ctx, q)
		if err != nil {
			return res, err
		}
		if len(hashes) == 0 {
			break
		}

		blocks, err := e.renderPage(ctx, hashes)
		if err != nil {
			return res, err
		}
		for _, b := range blocks {
			res.Hashes++
			if b == "" {
				res.Suppressed++
				continue
			}
			if _, err := bw.WriteString(b); err != nil {
				return res, fmt.Errorf("failed to write entry: %w", err)
			}
			res.Entries++
		}

		if len(hashes) < q.Limit {
			break
		}
		q.After = hashes[len(hashes)-1]
	}

	if _, err := bw.WriteString(Footer); err != nil {
		return res, fmt.Errorf("failed to write footer: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("failed to flush output: %w", err)
	}
	return res, nil
}

// renderPage renders each identity of a page concurrently. blocks[i] is the
// entry of hashes[i], or "" when it is suppressed.
func (e *Exporter) renderPage(ctx context.Context, hashes []string) ([]string, error) {
	blocks := make([]string, len(hashes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, h := range hashes {
		g.Go(func() error {
			block, _, err := e.RenderHash(gctx, h)
			if err != nil {
				return fmt.Errorf("hash %s: %w", h, err)
			}
			blocks[i] = block
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// RenderHash renders the entry block of one headword identity. ok is false
// when no record survives the length guard or every body is empty.
func (e *Exporter) RenderHash(ctx context.Context, hash string) (block string, ok bool, err error) {
	rows, err := e.src.RowsByHash(ctx, hash)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	records := make([]*entry.Record, 0, len(rows))
	for _, r := range rows {
		if wordutil.ByteLen(r.Word) >= e.opts.MaxHeadwordBytes {
			continue
		}
		records = append(records, entry.FromRow(r.Word, r.Klass, r.Desc))
	}
	if len(records) == 0 {
		return "", false, nil
	}

	block, ok = chunk.New(records).Render(chunk.Options{ShowReading: e.opts.ShowReading})
	return block, ok, nil
}

// ToFile writes the document to path through a temporary file in the same
// directory, renamed into place on success. The path "-" writes to stdout.
func (e *Exporter) ToFile(ctx context.Context, path string, stdout io.Writer) (Result, error) {
	started := time.Now()
	elog.LogExportStarted(e.opts.Logger, path, e.opts.Sample, e.opts.Workers)

	var (
		res Result
		err error
	)
	if path == StdoutPath {
		res, err = e.Run(ctx, stdout)
	} else {
		res, err = e.writeAtomic(ctx, path)
	}
	if err != nil {
		return res, err
	}

	elog.LogExportFinished(e.opts.Logger, path, res.Hashes, res.Entries, res.Suppressed,
		time.Since(started).Milliseconds())
	return res, nil
}

func (e *Exporter) writeAtomic(ctx context.Context, dest string) (Result, error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	res, err := e.Run(ctx, tmp)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return res, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return res, fmt.Errorf("failed to sync output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return res, fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return res, fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return res, fmt.Errorf("failed to move output into place: %w", err)
	}
	return res, nil
}
