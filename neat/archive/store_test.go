package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neatevo/neat"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store := NewStore(filepath.Join(t.TempDir(), "neatevo.db"))
	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "neatevo.db"))

	_, err := store.BeginRun(ctx, "run")
	assert.Error(t, err)
	assert.Error(t, store.RecordEpoch(ctx, "id", neat.EpochStats{}))
}

func TestStoreRequiresPath(t *testing.T) {
	store := NewStore("")
	assert.Error(t, store.Init(context.Background()))
}

func TestEpochRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	runID, err := store.BeginRun(ctx, "xor")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	first := neat.EpochStats{
		Generation:   1,
		Replaced:     true,
		EvictedID:    3,
		NewSpecies:   false,
		SpeciesCount: 1,
		BestFitness:  2.5,
	}
	second := neat.EpochStats{
		Generation:   2,
		Replaced:     false,
		EvictedID:    -1,
		SpeciesCount: 1,
		BestFitness:  2.5,
	}
	require.NoError(t, store.RecordEpoch(ctx, runID, first))
	require.NoError(t, store.RecordEpoch(ctx, runID, second))

	records, err := store.Epochs(ctx, runID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Generation)
	assert.True(t, records[0].Replaced)
	assert.Equal(t, 3, records[0].EvictedID)
	assert.Equal(t, 2.5, records[0].BestFitness)

	assert.Equal(t, 2, records[1].Generation)
	assert.False(t, records[1].Replaced)
	assert.Equal(t, -1, records[1].EvictedID)
}

func TestRunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	runA, err := store.BeginRun(ctx, "a")
	require.NoError(t, err)
	runB, err := store.BeginRun(ctx, "b")
	require.NoError(t, err)
	require.NotEqual(t, runA, runB)

	require.NoError(t, store.RecordEpoch(ctx, runA, neat.EpochStats{Generation: 1}))

	records, err := store.Epochs(ctx, runB)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunRecorderAdapter(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	runID, err := store.BeginRun(ctx, "adapter")
	require.NoError(t, err)

	rec := store.Recorder(ctx, runID)
	rec.RecordEpoch(neat.EpochStats{Generation: 1, EvictedID: -1})
	rec.RecordEpoch(neat.EpochStats{Generation: 2, Replaced: true, EvictedID: 0})
	require.NoError(t, rec.LastErr())

	records, err := store.Epochs(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Duplicate generations violate the primary key and surface in LastErr.
	rec.RecordEpoch(neat.EpochStats{Generation: 2})
	assert.Error(t, rec.LastErr())
}
