package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/steveyegge/cubic/internal/solver"
	"github.com/steveyegge/cubic/internal/types"
	"golang.org/x/sync/semaphore"
)

// Recorder persists finished solves
type Recorder interface {
	RecordSolve(ctx context.Context, rec *types.SolveRecord) error
}

// Result is the outcome of one equation
type Result struct {
	Index    int
	Name     string
	Solution *types.Solution
	Err      error
	Duration time.Duration
}

// Runner solves batches of equations with bounded concurrency
type Runner struct {
	solver   *solver.Solver
	sem      *semaphore.Weighted
	recorder Recorder
	logger   *slog.Logger
}

// Config holds Runner configuration
type Config struct {
	Solver *solver.Solver
	// Workers bounds concurrent solves. Default: 4
	Workers int
	// Recorder is optional; when set every successful solve is recorded
	Recorder Recorder
	Logger   *slog.Logger
}

// NewRunner creates a Runner
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Solver == nil {
		return nil, fmt.Errorf("solver is required")
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = 4
	}
	if workers < 0 {
		return nil, fmt.Errorf("workers must be positive (got %d)", workers)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		solver:   cfg.Solver,
		sem:      semaphore.NewWeighted(int64(workers)),
		recorder: cfg.Recorder,
		logger:   logger,
	}, nil
}

// Run solves every equation and returns results in input order.
// Invalid equations never reach the solver. Equations not started before
// ctx is done get ctx.Err() as their result.
func (r *Runner) Run(ctx context.Context, equations []Equation) []Result {
	results := make([]Result, len(equations))
	var wg sync.WaitGroup

	for i, eq := range equations {
		results[i] = Result{Index: i, Name: eq.Label(i)}

		coeffs, err := eq.Coefficients()
		if err != nil {
			results[i].Err = err
			continue
		}

		if err := r.sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(equations); j++ {
				results[j] = Result{Index: j, Name: equations[j].Label(j), Err: err}
			}
			break
		}

		wg.Add(1)
		go func(res *Result) {
			defer wg.Done()
			defer r.sem.Release(1)

			start := time.Now()
			sol, err := r.solver.Solve(ctx, coeffs)
			res.Duration = time.Since(start)
			if err != nil {
				res.Err = err
				return
			}
			res.Solution = sol
			r.record(ctx, res)
		}(&results[i])
	}

	wg.Wait()
	return results
}

func (r *Runner) record(ctx context.Context, res *Result) {
	if r.recorder == nil {
		return
	}
	rec := types.NewSolveRecord(res.Solution, types.SourceBatch, res.Duration)
	if err := r.recorder.RecordSolve(ctx, rec); err != nil {
		r.logger.Warn("failed to record solve", "equation", res.Name, "error", err)
	}
}

// Summary counts solved and failed results
func Summary(results []Result) (solved, failed int) {
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else {
			solved++
		}
	}
	return solved, failed
}
