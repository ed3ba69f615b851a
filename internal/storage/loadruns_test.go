package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLoadRun_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	older := &LoadRun{
		RunID:           uuid.New().String(),
		Source:          "EIJI-1.txt",
		Encoding:        "shift_jis",
		Lines:           10,
		Inserted:        8,
		Duplicates:      1,
		Skipped:         1,
		StartedAtUnixMs: 1000,
		EndedAtUnixMs:   2000,
	}
	newer := &LoadRun{
		RunID:           uuid.New().String(),
		Source:          "-",
		StartedAtUnixMs: 3000,
		EndedAtUnixMs:   3500,
	}
	require.NoError(t, store.RecordLoadRun(ctx, older))
	require.NoError(t, store.RecordLoadRun(ctx, newer))

	runs, err := store.LastLoadRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, *newer, runs[0])
	assert.Equal(t, *older, runs[1])

	runs, err = store.LastLoadRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, newer.RunID, runs[0].RunID)
}

func TestRecordLoadRun_Validation(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	assert.Error(t, store.RecordLoadRun(ctx, nil))
	assert.Error(t, store.RecordLoadRun(ctx, &LoadRun{Source: "x"}))
}

func TestRecordLoadRun_Duplicate(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	run := &LoadRun{RunID: "run-1", Source: "x", StartedAtUnixMs: 1, EndedAtUnixMs: 2}
	require.NoError(t, store.RecordLoadRun(ctx, run))

	err := store.RecordLoadRun(ctx, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already recorded")
}

func TestLastLoadRuns_Empty(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	runs, err := store.LastLoadRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
