// Package solver locates real roots of the cubic f(x) = a·x³ − b·x² + c·x + d.
//
// # Algorithm
//
// A Scan walks a closed range [Lo, Hi] in fixed steps (the last step is
// clipped so the final sample is exactly Hi). Every sub-interval whose end
// values satisfy f(left)·f(next) <= 0 is a bracket and is handed to the chord
// refiner. The refiner returns a best-effort estimate; it never fails, and
// hitting the iteration cap simply yields the last estimate.
//
// Candidates are kept only when they lie inside their bracket and are at least
// DedupThreshold away from every root accepted so far. A root sitting exactly
// on a sample point is usually bracketed twice and removed by that check.
// Roots closer together than the threshold are merged.
//
// # Ranges
//
// Two ranges are scanned for every cubic:
//
//   - NegativeRange: [-100000, 0], only candidates < 0 are kept
//   - FullRange: [-10000, 10000], no sign filter
//
// # Non-goals
//
// Complex roots and multiplicities are not reported. Tangent roots without a
// sign change are usually missed. Results are accurate to the tolerance and
// step, not analytically exact.
//
// # Concurrency
//
// A Solver holds only its configuration. Every scan allocates its own working
// set, so a Solver may be shared by any number of goroutines.
package solver
