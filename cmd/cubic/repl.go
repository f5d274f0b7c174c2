package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/steveyegge/cubic/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start interactive REPL shell",
	Long: `Start an interactive shell for solving cubics.

The REPL provides:
- 'solve' with no arguments prompts for a, b, c and d in turn
- 'solve a b c d' (or just 'a b c d') solves directly
- 'neg' and 'all' show a single root list
- 'history' and 'show' browse recorded solves

Type 'help' in the REPL for available commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := repl.New(&repl.Config{
			Solver: slv,
			Store:  store,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create REPL: %v\n", err)
			os.Exit(1)
		}

		if err := r.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
