package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/steveyegge/cubic/internal/config"
	"github.com/steveyegge/cubic/internal/solver"
	"github.com/steveyegge/cubic/internal/storage"
)

var (
	dbPath      string
	projectRoot string
	noColor     bool
	noHistory   bool
	verbose     bool

	settings  config.Settings
	retention config.RetentionConfig
	slv       *solver.Solver
	store     storage.Storage
)

var rootCmd = &cobra.Command{
	Use:   "cubic",
	Short: "Find real roots of a·x³ − b·x² + c·x + d",
	Long: `cubic finds real roots of the cubic a·x³ − b·x² + c·x + d by scanning a
fixed range for sign changes and refining each bracket with the chord method.

Two lists are reported for every cubic:
  - negative roots, scanned over [-100000, 0]
  - all roots, scanned over [-10000, 10000]

Scan settings can be overridden in .cubic/config.yaml or with CUBIC_*
environment variables. Solves are recorded in .cubic/history.db. The
project root is the nearest directory (upwards) containing .cubic/.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		settings, err = config.SettingsFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		retention, err = config.RetentionConfigFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if noColor || settings.NoColor {
			color.NoColor = true
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if projectRoot == "" {
			projectRoot, err = config.DiscoverProjectRoot()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		scanCfg, err := config.Load(projectRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		slog.Debug("scan configuration", "config", scanCfg.String())
		slv = solver.New(scanCfg).WithLogger(slog.Default().With("component", "solver"))

		if noHistory {
			return
		}
		path := dbPath
		if path == "" {
			path = config.ResolveDBPath(projectRoot, settings.DBPath)
		}
		store, err = storage.NewStorage(context.Background(), &storage.Config{Path: path})
		if err != nil {
			// history is optional; solving still works without it
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store == nil {
			return
		}
		pruneHistory(context.Background())
		_ = store.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "History database path (default: $CUBIC_DB_PATH or .cubic/history.db)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "config", "", "Project root containing .cubic/ (default: nearest parent with .cubic/, else the working directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not open or record solve history")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log scan statistics to stderr")
}

// pruneHistory applies the retention policy. Failures only warn.
func pruneHistory(ctx context.Context) {
	if !retention.Enabled {
		return
	}
	deleted, err := store.PruneHistory(ctx, retention.Cutoff(time.Now()), retention.MaxRecords, retention.BatchSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to prune history: %v\n", err)
		return
	}
	if deleted > 0 {
		slog.Debug("pruned solve history", "deleted", deleted, "policy", retention.String())
	}
}

func main() {
	rootCmd.SetArgs(escapeLeadingNegative(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
