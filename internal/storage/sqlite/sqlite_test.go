package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/steveyegge/cubic/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *types.SolveRecord {
	return &types.SolveRecord{
		Coefficients: types.Coefficients{A: 1, B: 0, C: -1, D: 0},
		Negative:     []float64{-0.9999998211303934},
		All:          []float64{-0.9999999974705284, -1.903902588674323e-10, 0.9999999968034466},
		Source:       types.SourceCLI,
		Duration:     42 * time.Millisecond,
	}
}

func TestRecordAndGetSolve(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	rec := sampleRecord()
	require.NoError(t, s.RecordSolve(ctx, rec))
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	got, err := s.GetSolve(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Coefficients, got.Coefficients)
	// roots round-trip exactly through JSON text
	assert.Equal(t, rec.Negative, got.Negative)
	assert.Equal(t, rec.All, got.All)
	assert.Equal(t, rec.Source, got.Source)
	assert.Equal(t, rec.Duration, got.Duration)
	assert.Equal(t, rec.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())
}

func TestRecordSolve_EmptyRoots(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	rec := sampleRecord()
	rec.Negative = nil
	rec.All = nil
	require.NoError(t, s.RecordSolve(ctx, rec))

	got, err := s.GetSolve(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Negative)
	assert.Nil(t, got.All)
}

func TestRecordSolve_Invalid(t *testing.T) {
	s := newTestStorage(t)

	rec := sampleRecord()
	rec.Coefficients.A = 0
	err := s.RecordSolve(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestGetSolve_Prefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	first := sampleRecord()
	first.ID = "abc-111"
	second := sampleRecord()
	second.ID = "abc-222"
	require.NoError(t, s.RecordSolve(ctx, first))
	require.NoError(t, s.RecordSolve(ctx, second))

	got, err := s.GetSolve(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-222", got.ID)

	_, err = s.GetSolve(ctx, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = s.GetSolve(ctx, "zzz")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetSolve(ctx, "")
	assert.Error(t, err)
}

func TestListSolves_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := sampleRecord()
		rec.Coefficients.D = float64(i)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.RecordSolve(ctx, rec))
	}

	all, err := s.ListSolves(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, 4.0, all[0].Coefficients.D)
	assert.Equal(t, 0.0, all[4].Coefficients.D)

	limited, err := s.ListSolves(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, 3.0, limited[1].Coefficients.D)
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordSolve(ctx, sampleRecord()))
	}

	n, err := s.ClearHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := s.ListSolves(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSchemaVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	version, err := s.GetConfig(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)
	require.NoError(t, s.RecordSolve(ctx, sampleRecord()))
	require.NoError(t, s.Close())

	// reopening keeps data
	s, err = New(ctx, path)
	require.NoError(t, err)
	records, err := s.ListSolves(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, s.SetConfig(ctx, "schema_version", "99"))
	require.NoError(t, s.Close())

	_, err = New(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version 99")
}
