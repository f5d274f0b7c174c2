package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/steveyegge/cubic/internal/display"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List, show or clear recorded solves",
	Long: `List recent solves, newest first.

With an id (or a unique id prefix) show that single solve. With --clear
delete all recorded solves.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if store == nil {
			fmt.Fprintf(os.Stderr, "Error: history is not available\n")
			os.Exit(1)
		}

		var err error
		switch {
		case historyClear:
			err = runHistoryClear(context.Background(), os.Stdout)
		case len(args) == 1:
			err = runHistoryShow(context.Background(), os.Stdout, args[0])
		default:
			err = runHistoryList(context.Background(), os.Stdout, historyLimit)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of solves to list")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded solves")
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(ctx context.Context, w io.Writer, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive (got %d)", limit)
	}
	records, err := store.ListSolves(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list solves: %w", err)
	}
	display.RenderRecords(w, records)
	return nil
}

func runHistoryShow(ctx context.Context, w io.Writer, id string) error {
	rec, err := store.GetSolve(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get solve %s: %w", id, err)
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("Solve"), rec.ID)
	fmt.Fprintf(w, "  equation: %s\n", rec.Coefficients.String())
	fmt.Fprintf(w, "  source:   %s\n", rec.Source)
	fmt.Fprintf(w, "  solved:   %s in %s\n\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.Duration)
	display.Render(w, rec.Solution())
	return nil
}

func runHistoryClear(ctx context.Context, w io.Writer) error {
	n, err := store.ClearHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s Cleared %d solve(s)\n", green("✓"), n)
	return nil
}
