package load

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/runger/eijiro/internal/entry"
	"github.com/runger/eijiro/internal/storage"
	"github.com/runger/eijiro/internal/wordutil"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), storage.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

const sample = "■cat : a small feline【発音】kæt◆pet\n" +
	"■cat{名} : a domestic animal\n" +
	"this is not a record\n" +
	"■dog{名} : 犬\r\n"

func TestLoader_Run(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res, err := New(store, Options{Source: "sample.txt"}).Run(ctx, strings.NewReader(sample))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, int64(4), res.Lines)
	assert.Equal(t, int64(3), res.Inserted)
	assert.Equal(t, int64(0), res.Duplicates)
	assert.Equal(t, int64(1), res.Skipped)
	assert.Equal(t, int64(3), res.Total)

	rows, err := store.RowsByHash(ctx, wordutil.Identity("cat"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a small feline【発音】kæt◆pet", rows[0].Desc)
	assert.Equal(t, "名", rows[1].Klass)

	rows, err = store.RowsByHash(ctx, wordutil.Identity("dog"))
	require.NoError(t, err)
	assert.Equal(t, "犬", rows[0].Desc, "carriage return is stripped")

	runs, err := store.LastLoadRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, "sample.txt", runs[0].Source)
	assert.Equal(t, int64(3), runs[0].Inserted)
}

func TestLoader_RunTwiceIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := New(store, Options{}).Run(ctx, strings.NewReader(sample))
	require.NoError(t, err)

	res, err := New(store, Options{BatchSize: 2}).Run(ctx, strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Inserted)
	assert.Equal(t, int64(3), res.Duplicates)
	assert.Equal(t, int64(3), res.Total)
}

func TestLoader_OverlongLineIsSkipped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	input := "■cat : 猫\n" +
		"■huge : " + strings.Repeat("x", maxLineBytes) + "\n" +
		"■dog : 犬"

	res, err := New(store, Options{}).Run(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Lines)
	assert.Equal(t, int64(2), res.Inserted)
	assert.Equal(t, int64(1), res.Skipped)

	_, err = store.RowsByHash(ctx, wordutil.Identity("huge"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
	rows, err := store.RowsByHash(ctx, wordutil.Identity("dog"))
	require.NoError(t, err)
	assert.Equal(t, "犬", rows[0].Desc, "last line without a newline is read")
}

func TestReadLine(t *testing.T) {
	long := strings.Repeat("y", maxLineBytes+1)
	r := bufio.NewReaderSize(strings.NewReader("a\r\n"+long+"\nb"), 16)

	line, tooLong, err := readLine(r, nil)
	require.NoError(t, err)
	assert.False(t, tooLong)
	assert.Equal(t, "a", string(line))

	line, tooLong, err = readLine(r, line)
	require.NoError(t, err)
	assert.True(t, tooLong)
	assert.Empty(t, line)

	line, tooLong, err = readLine(r, line)
	require.NoError(t, err)
	assert.False(t, tooLong)
	assert.Equal(t, "b", string(line))

	_, _, err = readLine(r, line)
	assert.Equal(t, io.EOF, err)
}

func TestLoader_SmallBatches(t *testing.T) {
	store := newTestStore(t)

	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString("■w")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString(" : desc\n")
	}

	res, err := New(store, Options{BatchSize: 4, ProgressEvery: 5}).Run(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Inserted)
	assert.Equal(t, int64(25), res.Total)
}

func TestLoader_ShiftJIS(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var encoded bytes.Buffer
	w := transform.NewWriter(&encoded, japanese.ShiftJIS.NewEncoder())
	_, err := io.WriteString(w, "■猫{名} : ねこ\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	res, err := New(store, Options{Encoding: "shift_jis"}).Run(ctx, &encoded)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Inserted)

	rows, err := store.RowsByHash(ctx, wordutil.Identity("猫"))
	require.NoError(t, err)
	assert.Equal(t, "ねこ", rows[0].Desc)
}

func TestLoader_UnknownEncoding(t *testing.T) {
	store := newTestStore(t)

	_, err := New(store, Options{Encoding: "klingon"}).Run(context.Background(), strings.NewReader(sample))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}

func TestLoader_Ryaku(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	line := "■ASAP : ＝as soon as possible◆できるだけ早く"
	_, err := New(store, Options{Ryaku: true}).Run(ctx, strings.NewReader(line+"\n"))
	require.NoError(t, err)

	rows, err := store.RowsByHash(ctx, wordutil.Identity("ASAP"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "＝<→as soon as possible>◆できるだけ早く", rows[0].Desc)
	// the row id is taken from the line as read
	assert.Equal(t, wordutil.RowID(line), rows[0].RowID)
}

func TestLoader_ContextCanceled(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(store, Options{}).Run(ctx, strings.NewReader(sample))
	assert.ErrorIs(t, err, context.Canceled)
}

type failingStore struct {
	err error
}

func (f failingStore) InsertRows(context.Context, []storage.Row) (int, error) { return 0, f.err }
func (f failingStore) CountRows(context.Context) (int64, error)             { return 0, nil }
func (f failingStore) RecordLoadRun(context.Context, *storage.LoadRun) error { return nil }

func TestLoader_StorageErrorIsFatal(t *testing.T) {
	boom := errors.New("disk full")

	_, err := New(failingStore{err: boom}, Options{}).Run(context.Background(), strings.NewReader(sample))
	assert.ErrorIs(t, err, boom)
}

func TestRewriteRyaku(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"■ASAP : ＝as soon as possible◆x", "■ASAP : ＝<→as soon as possible>◆x"},
		{"■AI : ＝artificial intelligence●人工知能", "■AI : ＝<→artificial intelligence>●人工知能"},
		{"■cat : 猫", "■cat : 猫"},
		{"■X : ＝unterminated", "■X : ＝unterminated"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RewriteRyaku(tt.in))
	}
}

func TestNewRow(t *testing.T) {
	line := "■cat{名} : 猫"
	f, err := entry.ParseLine(line)
	require.NoError(t, err)

	row := NewRow(line, f)
	assert.Equal(t, wordutil.RowID(line), row.RowID)
	assert.Equal(t, wordutil.Identity("cat"), row.Hash)
	assert.Equal(t, "cat", row.Word)
	assert.Equal(t, "名", row.Klass)
	assert.Equal(t, "猫", row.Desc)

	// the stored columns rebuild the same record
	r := entry.FromRow(row.Word, row.Klass, row.Desc)
	assert.Equal(t, f.Word, r.Word)
	assert.Equal(t, f.Klass, r.Klass)
	assert.Equal(t, f.Desc, r.Desc)
}

func TestDecode(t *testing.T) {
	for _, enc := range []string{"", "utf-8", "UTF8", "shift_jis", "sjis", "euc-jp", "windows-31j"} {
		assert.True(t, ValidEncoding(enc), "encoding %q", enc)
	}
	assert.False(t, ValidEncoding("klingon"))
}
