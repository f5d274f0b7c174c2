package solver

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/steveyegge/cubic/internal/config"
	"github.com/steveyegge/cubic/internal/types"
	"golang.org/x/sync/errgroup"
)

// Range is one scan window
type Range struct {
	Lo, Hi, Step float64
	// NegativeOnly drops candidates that are not strictly negative
	NegativeOnly bool
}

// Canonical scan windows, used by Default
var (
	NegativeRange = Range{Lo: -100000, Hi: 0, Step: 0.1, NegativeOnly: true}
	FullRange     = Range{Lo: -10000, Hi: 10000, Step: 0.1}
)

// Evaluate computes a·x³ − b·x² + c·x + d
func Evaluate(a, b, c, d, x float64) float64 {
	return a*x*x*x - b*x*x + c*x + d
}

// Solver scans cubics with a fixed configuration
type Solver struct {
	cfg      config.ScanConfig
	negative Range
	full     Range
	logger   *slog.Logger
}

// New creates a solver for cfg. The config is expected to be validated.
func New(cfg config.ScanConfig) *Solver {
	return &Solver{
		cfg:      cfg,
		negative: Range{Lo: cfg.NegativeLo, Hi: cfg.NegativeHi, Step: cfg.Step, NegativeOnly: true},
		full:     Range{Lo: cfg.FullLo, Hi: cfg.FullHi, Step: cfg.Step},
		logger:   slog.Default(),
	}
}

// WithLogger returns a copy of s that logs scan statistics to l
func (s *Solver) WithLogger(l *slog.Logger) *Solver {
	cp := *s
	cp.logger = l
	return &cp
}

// Config returns the configuration the solver was built with
func (s *Solver) Config() config.ScanConfig {
	return s.cfg
}

var defaultSolver = newDefault()

func newDefault() *Solver {
	s := New(config.DefaultScanConfig())
	s.negative, s.full = NegativeRange, FullRange
	return s
}

// Default returns the solver with canonical constants
func Default() *Solver {
	return defaultSolver
}

// RefineChord narrows [x0, x1] to a root estimate using the default tolerances
func RefineChord(a, b, c, d, x0, x1 float64) float64 {
	return defaultSolver.Refine(a, b, c, d, x0, x1).Root
}

// Scan returns the distinct roots of the cubic inside r, ascending
func Scan(a, b, c, d float64, r Range) []float64 {
	return defaultSolver.Scan(a, b, c, d, r)
}

// FindNegativeRoots scans NegativeRange
func FindNegativeRoots(a, b, c, d float64) []float64 {
	return defaultSolver.FindNegativeRoots(a, b, c, d)
}

// FindAllRoots scans FullRange
func FindAllRoots(a, b, c, d float64) []float64 {
	return defaultSolver.FindAllRoots(a, b, c, d)
}

// FindNegativeRoots scans the solver's negative range
func (s *Solver) FindNegativeRoots(a, b, c, d float64) []float64 {
	return s.Scan(a, b, c, d, s.negative)
}

// FindAllRoots scans the solver's full range
func (s *Solver) FindAllRoots(a, b, c, d float64) []float64 {
	return s.Scan(a, b, c, d, s.full)
}

// Solve runs both scans for coeffs in parallel.
// Coefficients are not validated here. Scans are not interruptible: when ctx
// is done, Solve returns ctx.Err() and the scans finish in the background.
func (s *Solver) Solve(ctx context.Context, coeffs types.Coefficients) (*types.Solution, error) {
	sol := &types.Solution{Coefficients: coeffs}
	done := make(chan error, 1)

	go func() {
		var g errgroup.Group
		var negative, all []float64
		g.Go(func() error {
			negative = s.FindNegativeRoots(coeffs.A, coeffs.B, coeffs.C, coeffs.D)
			return nil
		})
		g.Go(func() error {
			all = s.FindAllRoots(coeffs.A, coeffs.B, coeffs.C, coeffs.D)
			return nil
		})
		err := g.Wait()
		sol.Negative, sol.All = negative, all
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
		return sol, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Scan returns the distinct roots of the cubic inside r, ascending
func (s *Solver) Scan(a, b, c, d float64, r Range) []float64 {
	roots, stats := s.scan(a, b, c, d, r)
	s.logger.Debug("scan complete",
		"lo", r.Lo,
		"hi", r.Hi,
		"negative_only", r.NegativeOnly,
		"brackets", stats.Brackets,
		"unconverged", stats.Unconverged,
		"out_of_bracket", stats.OutOfBracket,
		"filtered", stats.Filtered,
		"duplicates", stats.Duplicates,
		"roots", len(roots))
	return roots
}

// ScanStats counts what happened to each bracket during a scan
type ScanStats struct {
	Brackets     int
	Unconverged  int
	OutOfBracket int
	Filtered     int
	Duplicates   int
}

func (s *Solver) scan(a, b, c, d float64, r Range) ([]float64, ScanStats) {
	var stats ScanStats
	roots := make([]float64, 0, 3)

	for left := r.Lo; left < r.Hi; {
		next := math.Min(left+r.Step, r.Hi)
		if next <= left {
			// step below the float spacing at left; the scan cannot advance
			s.logger.Warn("scan step too small for range", "left", left, "step", r.Step)
			break
		}

		if Evaluate(a, b, c, d, left)*Evaluate(a, b, c, d, next) <= 0 {
			stats.Brackets++
			ref := s.Refine(a, b, c, d, left, next)
			if !ref.Converged {
				stats.Unconverged++
			}

			root := ref.Root
			var accepted bool
			switch {
			// written as a negation so NaN is rejected
			case !(root >= left && root <= next):
				stats.OutOfBracket++
			case r.NegativeOnly && !(root < 0):
				stats.Filtered++
			default:
				roots, accepted = appendDistinct(roots, root, s.cfg.DedupThreshold)
				if !accepted {
					stats.Duplicates++
				}
			}
		}
		left = next
	}

	sort.Float64s(roots)
	return roots, stats
}

// appendDistinct adds x unless an existing root is closer than threshold.
// Near-duplicate membership is a distance test, so this is a linear scan.
func appendDistinct(roots []float64, x, threshold float64) ([]float64, bool) {
	for _, r := range roots {
		if math.Abs(r-x) < threshold {
			return roots, false
		}
	}
	return append(roots, x), true
}
