package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/steveyegge/cubic/internal/display"
	"github.com/steveyegge/cubic/internal/input"
	"github.com/steveyegge/cubic/internal/types"
)

var (
	solveJSON   bool
	solveNoSave bool
)

var solveCmd = &cobra.Command{
	Use:   "solve a b c d",
	Short: "Find negative and all real roots of one cubic",
	Long: `Find the real roots of a·x³ − b·x² + c·x + d.

Coefficients accept '.' or ',' as the decimal separator and may be
negative. Flags must come before the coefficients.

Examples:
  cubic solve 1 0 -1 0          # x³ − x: roots -1, 0, 1
  cubic solve 1,5 0 0 -1,5      # comma decimals
  cubic solve --json 1 0 1 1
  cubic solve -2 0 0 16`,
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSolve(context.Background(), os.Stdout, args); err != nil {
			fmt.Fprintln(os.Stderr, input.Message(err))
			os.Exit(1)
		}
	},
}

func init() {
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Print the result as JSON")
	solveCmd.Flags().BoolVar(&solveNoSave, "no-save", false, "Do not record this solve in history")
	// negative coefficients after the first one are not flags
	solveCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(solveCmd)
}

// escapeLeadingNegative inserts "--" before the first coefficient of a solve
// command when it is a negative number, so "cubic solve -2 0 0 16" is not
// read as the shorthand flag -2. Later coefficients need no escaping because
// solve stops flag parsing at its first positional argument.
func escapeLeadingNegative(args []string) []string {
	inSolve := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args
		}
		if len(arg) > 1 && strings.HasPrefix(arg, "-") {
			if inSolve && isNumber(arg) {
				escaped := make([]string, 0, len(args)+1)
				escaped = append(escaped, args[:i]...)
				escaped = append(escaped, "--")
				return append(escaped, args[i:]...)
			}
			if flagTakesValue(arg) {
				i++
			}
			continue
		}
		if inSolve || arg != solveCmd.Name() {
			// another command, or a non-negative first coefficient
			return args
		}
		inSolve = true
	}
	return args
}

func isNumber(arg string) bool {
	_, err := input.ParseCoefficient(arg)
	return err == nil
}

// flagTakesValue reports whether arg is a flag whose value is the next argument
func flagTakesValue(arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	var f *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		if f = solveCmd.Flags().Lookup(name); f == nil {
			f = rootCmd.PersistentFlags().Lookup(name)
		}
	} else if name := arg[1:]; len(name) == 1 {
		if f = solveCmd.Flags().ShorthandLookup(name); f == nil {
			f = rootCmd.PersistentFlags().ShorthandLookup(name)
		}
	}
	return f != nil && f.NoOptDefVal == ""
}

// runSolve parses args, solves and renders to w. Invalid input is returned
// before the solver runs.
func runSolve(ctx context.Context, w io.Writer, args []string) error {
	coeffs, err := input.ParseArgs(args)
	if err != nil {
		return err
	}

	start := time.Now()
	sol, err := slv.Solve(ctx, coeffs)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	took := time.Since(start)

	if solveJSON {
		if err := display.RenderJSON(w, sol); err != nil {
			return err
		}
	} else {
		display.Render(w, sol)
	}

	if store != nil && !solveNoSave {
		if err := store.RecordSolve(ctx, types.NewSolveRecord(sol, types.SourceCLI, took)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record solve: %v\n", err)
		}
	}
	return nil
}
