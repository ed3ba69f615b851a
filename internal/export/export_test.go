package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/eijiro/internal/entry"
	"github.com/runger/eijiro/internal/load"
	"github.com/runger/eijiro/internal/storage"
	"github.com/runger/eijiro/internal/wordutil"
)

// memSource is an in-memory Source keyed by hash.
type memSource struct {
	rows    map[string][]storage.Row
	pageErr error
	rowErr  error
}

func newMemSource() *memSource {
	return &memSource{rows: map[string][]storage.Row{}}
}

func (m *memSource) addLine(t *testing.T, line string) {
	t.Helper()
	f, err := entry.ParseLine(line)
	require.NoError(t, err)
	row := load.NewRow(line, f)
	m.rows[row.Hash] = append(m.rows[row.Hash], row)
}

func (m *memSource) addRow(hash, word, klass, desc string) {
	m.rows[hash] = append(m.rows[hash], storage.Row{Hash: hash, Word: word, Klass: klass, Desc: desc})
}

func (m *memSource) HashPage(_ context.Context, q storage.HashQuery) ([]string, error) {
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	keys := make([]string, 0, len(m.rows))
	for k := range m.rows {
		if k > q.After && strings.HasPrefix(k, q.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if q.Limit > 0 && len(keys) > q.Limit {
		keys = keys[:q.Limit]
	}
	return keys, nil
}

func (m *memSource) RowsByHash(_ context.Context, hash string) ([]storage.Row, error) {
	if m.rowErr != nil {
		return nil, m.rowErr
	}
	rows, ok := m.rows[hash]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rows, nil
}

func TestRun_EndToEnd(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), storage.Options{})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	input := "■cat : a small feline【発音】kæt◆pet\n■cat{名} : a domestic animal\n"
	_, err = load.New(store, load.Options{Encoding: "utf-8"}).Run(ctx, strings.NewReader(input))
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := New(store, Options{}).Run(ctx, &out)
	require.NoError(t, err)

	assert.Equal(t, Result{Hashes: 1, Entries: 1}, res)

	doc := out.String()
	assert.True(t, strings.HasPrefix(doc, Header))
	assert.True(t, strings.HasSuffix(doc, Footer))
	assert.Equal(t, 1, strings.Count(doc, "<d:entry "))
	assert.Contains(t, doc, "<d:entry id='"+wordutil.Identity("cat")+"' d:title=\"cat\">")
	assert.Contains(t, doc, "<span class='pr'>kæt</span>")
	assert.Contains(t, doc, "<br/>pet")
	assert.Contains(t, doc, "<span class='wordclass'>名詞</span><br/><ol><li>a domestic animal</li></ol>")
}

func TestRun_EmptyStore(t *testing.T) {
	var out bytes.Buffer
	res, err := New(newMemSource(), Options{}).Run(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, Header+Footer, out.String())
}

func TestRenderHash_LengthGuard(t *testing.T) {
	src := newMemSource()
	long := strings.Repeat("a", 320)
	fits := strings.Repeat("b", 319)
	src.addLine(t, "■"+long+" : too long")
	src.addLine(t, "■"+fits+" : fits")

	e := New(src, Options{})
	ctx := context.Background()

	_, ok, err := e.RenderHash(ctx, wordutil.Identity(long))
	require.NoError(t, err)
	assert.False(t, ok)

	block, ok, err := e.RenderHash(ctx, wordutil.Identity(fits))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, block, "<p>fits</p>")

	var out bytes.Buffer
	res, err := e.Run(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, Result{Hashes: 2, Entries: 1, Suppressed: 1}, res)
}

func TestRenderHash_MultibyteLengthGuard(t *testing.T) {
	src := newMemSource()
	// 107 three-byte characters are 321 bytes
	word := strings.Repeat("猫", 107)
	src.addLine(t, "■"+word+" : cat")

	_, ok, err := New(src, Options{}).RenderHash(context.Background(), wordutil.Identity(word))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRenderHash_Unknown(t *testing.T) {
	_, ok, err := New(newMemSource(), Options{}).RenderHash(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRun_SuppressesEmptyChunks(t *testing.T) {
	src := newMemSource()
	src.addLine(t, "■cat : 【発音】kæt")
	src.addLine(t, "■dog : 犬")

	var out bytes.Buffer
	res, err := New(src, Options{}).Run(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, Result{Hashes: 2, Entries: 1, Suppressed: 1}, res)
	assert.NotContains(t, out.String(), "d:title=\"cat\"")
}

func TestRun_Sample(t *testing.T) {
	src := newMemSource()
	src.addRow("00ab", "kept", "", "残る")
	src.addRow("0a00", "dropped", "", "消える")
	src.addRow("ff00", "dropped too", "", "消える")

	var out bytes.Buffer
	res, err := New(src, Options{Sample: true}).Run(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Entries)
	assert.Contains(t, out.String(), "残る")
	assert.NotContains(t, out.String(), "消える")
}

func TestRun_DeterministicAcrossWorkers(t *testing.T) {
	src := newMemSource()
	for _, w := range []string{"apple", "banana", "cherry", "date", "elder", "fig", "grape"} {
		src.addLine(t, "■"+w+"{名} : "+w+"の説明")
	}

	ctx := context.Background()
	var serial, parallel bytes.Buffer
	_, err := New(src, Options{Workers: 1, PageSize: 100}).Run(ctx, &serial)
	require.NoError(t, err)
	res, err := New(src, Options{Workers: 8, PageSize: 2}).Run(ctx, &parallel)
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.Entries)
	assert.Equal(t, serial.String(), parallel.String())

	// entries follow identity order
	var ids []string
	for _, part := range strings.Split(serial.String(), "<d:entry id='")[1:] {
		ids = append(ids, part[:64])
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestRun_StorageErrors(t *testing.T) {
	boom := errors.New("database is locked")

	src := newMemSource()
	src.addLine(t, "■cat : 猫")
	src.rowErr = boom
	_, err := New(src, Options{}).Run(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)

	src = newMemSource()
	src.pageErr = boom
	_, err = New(src, Options{}).Run(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("no space left") }

func TestRun_WriteErrorAborts(t *testing.T) {
	src := newMemSource()
	src.addLine(t, "■cat : 猫")

	_, err := New(src, Options{}).Run(context.Background(), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
}

func TestToFile_Atomic(t *testing.T) {
	src := newMemSource()
	src.addLine(t, "■cat : 猫")

	dir := t.TempDir()
	dest := filepath.Join(dir, "Dictionary.xml")

	res, err := New(src, Options{}).ToFile(context.Background(), dest, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Entries)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header))
	assert.Contains(t, string(data), "<p>猫</p>")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}

func TestToFile_FailureRemovesTemp(t *testing.T) {
	src := newMemSource()
	src.addLine(t, "■cat : 猫")
	src.rowErr = errors.New("boom")

	dir := t.TempDir()
	dest := filepath.Join(dir, "Dictionary.xml")

	_, err := New(src, Options{}).ToFile(context.Background(), dest, nil)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToFile_Stdout(t *testing.T) {
	src := newMemSource()
	src.addLine(t, "■cat : 猫")

	var out bytes.Buffer
	res, err := New(src, Options{}).ToFile(context.Background(), StdoutPath, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Entries)
	assert.Contains(t, out.String(), "<p>猫</p>")
}
