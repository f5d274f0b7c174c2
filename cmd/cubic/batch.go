package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/steveyegge/cubic/internal/batch"
	"github.com/steveyegge/cubic/internal/display"
	"github.com/steveyegge/cubic/internal/input"
)

var (
	batchWorkers int
	batchNoSave  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Solve every equation in a YAML file",
	Long: `Solve every equation listed in a YAML batch file.

File format:
  equations:
    - name: unit cube
      a: 1
      b: 0
      c: 0
      d: -1
    - a: "1,5"
      b: 0
      c: 0
      d: "-1,5"

Coefficients may be numbers or strings; strings accept ',' as the decimal
separator. Equations are solved concurrently and printed in file order.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := runBatch(context.Background(), os.Stdout, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent solves (default: $CUBIC_WORKERS or 4)")
	batchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "Do not record solves in history")
	rootCmd.AddCommand(batchCmd)
}

// runBatch loads path, solves its equations and prints the results.
// Per-equation failures are reported inline; only file and setup errors
// are returned.
func runBatch(ctx context.Context, w io.Writer, path string) ([]batch.Result, error) {
	file, err := batch.LoadFile(path)
	if err != nil {
		return nil, err
	}

	workers := batchWorkers
	if workers == 0 {
		workers = settings.Workers
	}

	cfg := batch.Config{Solver: slv, Workers: workers}
	if store != nil && !batchNoSave {
		cfg.Recorder = store
	}
	runner, err := batch.NewRunner(cfg)
	if err != nil {
		return nil, err
	}

	results := runner.Run(ctx, file.Equations)
	renderBatchResults(w, file.Equations, results)
	return results, nil
}

func renderBatchResults(w io.Writer, equations []batch.Equation, results []batch.Result) {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := res.Name
		if res.Solution != nil {
			header = fmt.Sprintf("%s: %s", res.Name, res.Solution.Coefficients.String())
		} else if i < len(equations) {
			eq := equations[i]
			header = fmt.Sprintf("%s: a=%s b=%s c=%s d=%s", res.Name, eq.A, eq.B, eq.C, eq.D)
		}
		fmt.Fprintf(w, "%s\n", bold("== "+header))

		if res.Err != nil {
			fmt.Fprintf(w, "%s\n", red(input.Message(res.Err)))
			continue
		}
		display.Render(w, res.Solution)
	}

	solved, failed := batch.Summary(results)
	fmt.Fprintln(w)
	if failed == 0 {
		fmt.Fprintf(w, "%s Solved %d equation(s)\n", green("✓"), solved)
	} else {
		fmt.Fprintf(w, "%s Solved %d of %d equation(s), %d failed\n",
			yellow("⚠"), solved, len(results), failed)
	}
}
