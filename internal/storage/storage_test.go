package storage

import (
	"context"
	"testing"

	"github.com/steveyegge/cubic/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, ".cubic/history.db", DefaultConfig().Path)
}

func TestNewStorage_Memory(t *testing.T) {
	ctx := context.Background()
	store, err := NewStorage(ctx, &Config{Path: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	rec := &types.SolveRecord{
		Coefficients: types.Coefficients{A: 1, C: 1, D: 1},
		Negative:     []float64{-0.6823087452782214},
		All:          []float64{-0.6823087427744654},
		Source:       types.SourceBatch,
	}
	require.NoError(t, store.RecordSolve(ctx, rec))

	records, err := store.ListSolves(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
}
