package repl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/steveyegge/cubic/internal/display"
	"github.com/steveyegge/cubic/internal/input"
	"github.com/steveyegge/cubic/internal/types"
)

// cmdSolve finds negative and all roots and records the solve
func (r *REPL) cmdSolve(args []string) error {
	coeffs, ok, err := r.readCoefficients(args)
	if err != nil || !ok {
		return err
	}

	start := time.Now()
	sol, err := r.solver.Solve(r.ctx, coeffs)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	took := time.Since(start)

	fmt.Fprintln(r.out)
	display.Render(r.out, sol)
	fmt.Fprintln(r.out)

	if r.store != nil {
		if err := r.store.RecordSolve(r.ctx, types.NewSolveRecord(sol, types.SourceREPL, took)); err != nil {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(r.out, "%s failed to record solve: %v\n", yellow("Warning:"), err)
		}
	}
	return nil
}

// cmdNegative finds negative roots only
func (r *REPL) cmdNegative(args []string) error {
	coeffs, ok, err := r.readCoefficients(args)
	if err != nil || !ok {
		return err
	}
	roots := r.solver.FindNegativeRoots(coeffs.A, coeffs.B, coeffs.C, coeffs.D)
	display.RenderList(r.out, "Negative roots:", roots, "No negative roots found")
	return nil
}

// cmdAll finds all roots only
func (r *REPL) cmdAll(args []string) error {
	coeffs, ok, err := r.readCoefficients(args)
	if err != nil || !ok {
		return err
	}
	roots := r.solver.FindAllRoots(coeffs.A, coeffs.B, coeffs.C, coeffs.D)
	display.RenderList(r.out, "All roots:", roots, "No roots found in the search range")
	return nil
}

// readCoefficients parses args, or prompts for each coefficient when there
// are none. ok is false when input was rejected; the message has already
// been printed and the solver must not run.
func (r *REPL) readCoefficients(args []string) (coeffs types.Coefficients, ok bool, err error) {
	var fields [4]string
	switch len(args) {
	case 0:
		if fields, err = r.promptFields(); err != nil {
			return coeffs, false, err
		}
	case 4:
		copy(fields[:], args)
	default:
		return coeffs, false, fmt.Errorf("expected 4 coefficients (a b c d), got %d", len(args))
	}

	coeffs, err = input.ParseCoefficients(fields[0], fields[1], fields[2], fields[3])
	if err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintln(r.out, red(input.Message(err)))
		return coeffs, false, nil
	}
	return coeffs, true, nil
}

// promptFields asks for a, b, c and d in turn
func (r *REPL) promptFields() ([4]string, error) {
	var fields [4]string
	defer r.rl.SetPrompt(r.prompt)

	for i, name := range input.Names {
		r.rl.SetPrompt(fmt.Sprintf("  %s = ", name))
		line, err := r.rl.Readline()
		if err != nil {
			return fields, fmt.Errorf("input aborted: %w", err)
		}
		fields[i] = line
	}
	return fields, nil
}

// cmdHistory lists recent solves
func (r *REPL) cmdHistory(args []string) error {
	if r.store == nil {
		fmt.Fprintln(r.out, "History is disabled")
		return nil
	}

	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit %q", args[0])
		}
		limit = n
	}

	records, err := r.store.ListSolves(r.ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	display.RenderRecords(r.out, records)
	return nil
}

// cmdShow displays one recorded solve
func (r *REPL) cmdShow(args []string) error {
	if r.store == nil {
		fmt.Fprintln(r.out, "History is disabled")
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}

	rec, err := r.store.GetSolve(r.ctx, args[0])
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(r.out, "\n%s %s\n\n", cyan(rec.ID), rec.Coefficients.String())
	display.Render(r.out, rec.Solution())
	fmt.Fprintln(r.out)
	return nil
}

// cmdConfig prints the scan configuration
func (r *REPL) cmdConfig(args []string) error {
	cfg := r.solver.Config()
	fmt.Fprintf(r.out, "  negative range  [%g, %g]\n", cfg.NegativeLo, cfg.NegativeHi)
	fmt.Fprintf(r.out, "  full range      [%g, %g]\n", cfg.FullLo, cfg.FullHi)
	fmt.Fprintf(r.out, "  step            %g\n", cfg.Step)
	fmt.Fprintf(r.out, "  tolerance       %g\n", cfg.Tolerance)
	fmt.Fprintf(r.out, "  max iterations  %d\n", cfg.MaxIterations)
	fmt.Fprintf(r.out, "  dedup threshold %g\n", cfg.DedupThreshold)
	return nil
}
