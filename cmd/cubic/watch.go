package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/steveyegge/cubic/internal/batch"
	"golang.org/x/time/rate"
)

var watchMinInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-solve a batch file whenever it changes",
	Long: `Solve a batch file, then watch it and solve again after every save.

Parse errors are reported and watching continues. Press Ctrl+C to stop.
Accepts the same flags as 'cubic batch'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runWatch(ctx, os.Stdout, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent solves (default: $CUBIC_WORKERS or 4)")
	watchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "Do not record solves in history")
	watchCmd.Flags().DurationVar(&watchMinInterval, "min-interval", 500*time.Millisecond, "Minimum time between re-solves")
	rootCmd.AddCommand(watchCmd)
}

// runWatch solves path once and again on every change until ctx is done.
func runWatch(ctx context.Context, w io.Writer, path string) error {
	watcher, err := batch.NewWatcher(path, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	interval := watchMinInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	solveOnce := func() {
		if _, err := runBatch(ctx, w, path); err != nil {
			fmt.Fprintf(w, "%s\n", red(fmt.Sprintf("Error: %v", err)))
		}
		fmt.Fprintf(w, "\n%s\n", cyan(fmt.Sprintf("Watching %s (Ctrl+C to stop)", path)))
	}

	solveOnce()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, "\nStopped watching")
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := limiter.Wait(ctx); err != nil {
				fmt.Fprintln(w, "\nStopped watching")
				return nil
			}
			// saves that arrived while throttled collapse into this solve
			select {
			case <-changes:
			default:
			}
			fmt.Fprintf(w, "\n%s\n\n", cyan(fmt.Sprintf("→ %s changed, solving again", path)))
			solveOnce()
		}
	}
}
