package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/steveyegge/cubic/internal/config"
	"github.com/steveyegge/cubic/internal/input"
	"github.com/steveyegge/cubic/internal/solver"
	"github.com/steveyegge/cubic/internal/storage"
	"github.com/steveyegge/cubic/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCommandTest swaps the command globals for a default solver and an
// in-memory history store.
func setupCommandTest(t *testing.T) storage.Storage {
	t.Helper()

	originalNoColor := color.NoColor
	color.NoColor = true

	testStore, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	require.NoError(t, err)

	originalSolver, originalStore := slv, store
	slv = solver.Default()
	store = testStore

	t.Cleanup(func() {
		testStore.Close()
		slv, store = originalSolver, originalStore
		color.NoColor = originalNoColor
		solveJSON, solveNoSave = false, false
		batchWorkers, batchNoSave = 0, false
	})
	return testStore
}

func TestSolveFlagsStopAtFirstCoefficient(t *testing.T) {
	t.Cleanup(func() { solveJSON = false })

	flags := solveCmd.Flags()
	require.NoError(t, flags.Parse([]string{"--json", "1", "0", "-1", "0"}))
	assert.True(t, solveJSON)
	assert.Equal(t, []string{"1", "0", "-1", "0"}, flags.Args())
}

func TestEscapeLeadingNegative(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"negative a", []string{"solve", "-2", "0", "0", "16"}, []string{"solve", "--", "-2", "0", "0", "16"}},
		{"comma decimal", []string{"solve", "-1,5", "0", "0", "1"}, []string{"solve", "--", "-1,5", "0", "0", "1"}},
		{"after solve flags", []string{"solve", "--json", "-2", "0", "0", "16"}, []string{"solve", "--json", "--", "-2", "0", "0", "16"}},
		{"after root flags", []string{"--db", "h.db", "-v", "solve", "-2", "0", "0", "16"}, []string{"--db", "h.db", "-v", "solve", "--", "-2", "0", "0", "16"}},
		{"flag value looks like solve", []string{"--config", "solve", "history"}, []string{"--config", "solve", "history"}},
		{"positive a", []string{"solve", "1", "0", "-1", "0"}, []string{"solve", "1", "0", "-1", "0"}},
		{"already escaped", []string{"solve", "--", "-2", "0", "0", "16"}, []string{"solve", "--", "-2", "0", "0", "16"}},
		{"other command", []string{"history", "-n", "5"}, []string{"history", "-n", "5"}},
		{"unknown flag kept", []string{"solve", "-x", "1", "0", "0", "1"}, []string{"solve", "-x", "1", "0", "0", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLeadingNegative(tt.args))
		})
	}
}

func TestSolveFlagsAcceptNegativeLeadingCoefficient(t *testing.T) {
	t.Cleanup(func() { solveJSON = false })

	args := escapeLeadingNegative([]string{"solve", "--json", "-2", "0", "0", "16"})
	flags := solveCmd.Flags()
	require.NoError(t, flags.Parse(args[1:]))
	assert.True(t, solveJSON)
	assert.Equal(t, []string{"-2", "0", "0", "16"}, flags.Args())

	var out bytes.Buffer
	setupCommandTest(t)
	solveNoSave = true
	require.NoError(t, runSolve(context.Background(), &out, flags.Args()))

	var sol types.Solution
	require.NoError(t, json.Unmarshal(out.Bytes(), &sol))
	assert.Equal(t, -2.0, sol.Coefficients.A)
}

func TestRunSolve(t *testing.T) {
	testStore := setupCommandTest(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, runSolve(ctx, &out, []string{"1", "-6", "11", "6"}))

	text := out.String()
	assert.Contains(t, text, "Negative roots:")
	assert.Contains(t, text, "All roots:")
	assert.Contains(t, text, "  x3 = ")

	records, err := testStore.ListSolves(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.SourceCLI, records[0].Source)
	assert.Len(t, records[0].All, 3)
}

func TestRunSolveJSON(t *testing.T) {
	setupCommandTest(t)
	solveJSON = true
	solveNoSave = true

	var out bytes.Buffer
	require.NoError(t, runSolve(context.Background(), &out, []string{"1", "6", "11", "-6"}))

	var sol types.Solution
	require.NoError(t, json.Unmarshal(out.Bytes(), &sol))
	assert.Empty(t, sol.Negative)
	require.Len(t, sol.All, 3)
	for i, want := range []float64{1, 2, 3} {
		assert.InDelta(t, want, sol.All[i], 1e-3)
	}

	records, err := store.ListSolves(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records, "--no-save must not record")
}

func TestRunSolveCommaDecimals(t *testing.T) {
	setupCommandTest(t)
	solveJSON = true

	var out bytes.Buffer
	require.NoError(t, runSolve(context.Background(), &out, []string{"2,0", "0", "0", "16"}))

	var sol types.Solution
	require.NoError(t, json.Unmarshal(out.Bytes(), &sol))
	require.Len(t, sol.Negative, 1)
	assert.InDelta(t, -2, sol.Negative[0], 1e-3)
}

func TestRunSolveInvalidInput(t *testing.T) {
	testStore := setupCommandTest(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"not a number", []string{"1", "x", "0", "0"}, input.ErrNotANumber},
		{"zero leading", []string{"0", "1", "2", "3"}, input.ErrZeroLeading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runSolve(context.Background(), &out, tt.args)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, out.String())
		})
	}

	records, err := testStore.ListSolves(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunBatch(t *testing.T) {
	testStore := setupCommandTest(t)

	path := filepath.Join(t.TempDir(), "cubics.yaml")
	content := `equations:
  - name: shifted
    a: 1
    b: -6
    c: 11
    d: 6
  - name: broken
    a: 0
    b: 1
    c: 1
    d: 1
  - a: "2,0"
    b: 0
    c: 0
    d: 16
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var out bytes.Buffer
	results, err := runBatch(context.Background(), &out, path)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, input.ErrZeroLeading)
	assert.NoError(t, results[2].Err)

	text := out.String()
	assert.Contains(t, text, "== shifted: ")
	assert.Contains(t, text, "== broken: a=0 b=1 c=1 d=1")
	assert.Contains(t, text, "Error: coefficient 'a' cannot be 0")
	assert.Contains(t, text, "== equation 3: ")
	assert.Contains(t, text, "Solved 2 of 3 equation(s), 1 failed")

	records, err := testStore.ListSolves(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunBatchMissingFile(t *testing.T) {
	setupCommandTest(t)

	var out bytes.Buffer
	_, err := runBatch(context.Background(), &out, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHistoryCommands(t *testing.T) {
	setupCommandTest(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, runHistoryList(ctx, &out, 5))
	assert.Contains(t, out.String(), "No solves recorded")

	require.NoError(t, runSolve(ctx, &bytes.Buffer{}, []string{"2", "0", "0", "16"}))

	out.Reset()
	require.NoError(t, runHistoryList(ctx, &out, 5))
	assert.Contains(t, out.String(), "2·x³ − 0·x² + 0·x + 16")

	records, err := store.ListSolves(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	out.Reset()
	require.NoError(t, runHistoryShow(ctx, &out, records[0].ID[:8]))
	assert.Contains(t, out.String(), records[0].ID)
	assert.Contains(t, out.String(), "source:   cli")
	assert.Contains(t, out.String(), "Negative roots:")

	out.Reset()
	require.NoError(t, runHistoryClear(ctx, &out))
	assert.Contains(t, out.String(), "Cleared 1 solve(s)")

	assert.Error(t, runHistoryShow(ctx, &out, records[0].ID))
	assert.Error(t, runHistoryList(ctx, &out, 0))
}

func TestRenderConfig(t *testing.T) {
	setupCommandTest(t)

	var out bytes.Buffer
	renderConfig(&out, slv.Config())

	text := out.String()
	assert.Contains(t, text, "negative range   [-100000, 0]")
	assert.Contains(t, text, "full range       [-10000, 10000]")
	assert.Contains(t, text, "max iterations   10000")
}

func TestPruneHistory(t *testing.T) {
	testStore := setupCommandTest(t)
	ctx := context.Background()

	originalRetention := retention
	t.Cleanup(func() { retention = originalRetention })

	for i := 0; i < 12; i++ {
		rec := &types.SolveRecord{
			Coefficients: types.Coefficients{A: 1, D: float64(i)},
			Source:       types.SourceCLI,
		}
		require.NoError(t, testStore.RecordSolve(ctx, rec))
	}

	retention = config.DefaultRetentionConfig()
	retention.Enabled = false
	retention.MaxRecords = 10
	pruneHistory(ctx)
	records, err := testStore.ListSolves(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 12, "disabled retention keeps everything")

	retention.Enabled = true
	pruneHistory(ctx)
	records, err = testStore.ListSolves(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 10)
}
