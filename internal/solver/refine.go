package solver

import "math"

// Refinement is the outcome of chord refinement on one bracket
type Refinement struct {
	Root       float64
	Iterations int
	// Converged reports whether |f(Root)| met the tolerance before the cap
	Converged bool
}

// Refine narrows the bracket [x0, x1] with the chord (false position) rule.
//
// Each step takes the secant through (start, f(start)) and (end, f(end)), or
// the midpoint when the two values are closer than FlatSlope. The end point
// moves only when f(mid)·f(start) < 0; every other case, including
// f(mid) == 0, moves start. Refinement stops once |f(mid)| <= Tolerance or
// after MaxIterations steps, and the last mid is returned either way.
func (s *Solver) Refine(a, b, c, d, x0, x1 float64) Refinement {
	start, end := x0, x1
	var mid, fMid float64
	iterations := 0

	for {
		fStart := Evaluate(a, b, c, d, start)
		fEnd := Evaluate(a, b, c, d, end)

		if math.Abs(fEnd-fStart) < s.cfg.FlatSlope {
			mid = (start + end) / 2
		} else {
			mid = end - fEnd*(end-start)/(fEnd-fStart)
		}

		fMid = Evaluate(a, b, c, d, mid)

		if fMid*fStart < 0 {
			end = mid
		} else {
			start = mid
		}

		iterations++
		// NaN compares false and ends refinement
		if !(math.Abs(fMid) > s.cfg.Tolerance) || iterations >= s.cfg.MaxIterations {
			break
		}
	}

	return Refinement{
		Root:       mid,
		Iterations: iterations,
		Converged:  math.Abs(fMid) <= s.cfg.Tolerance,
	}
}
