package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/steveyegge/cubic/internal/config"
)

var (
	configInit  bool
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective scan configuration",
	Long: `Show the scan configuration after applying .cubic/config.yaml and
CUBIC_* environment variables.

With --init, write the default configuration to .cubic/config.yaml.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if configInit {
			path, err := config.WriteConfigFile(projectRoot, config.DefaultScanConfig(), configForce)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Wrote %s\n", green("✓"), path)
			return
		}
		renderConfig(os.Stdout, slv.Config())
	},
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the default config file")
	configCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file with --init")
	rootCmd.AddCommand(configCmd)
}

func renderConfig(w io.Writer, cfg config.ScanConfig) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", cyan("Config file:"), config.ConfigPath(projectRoot))
	fmt.Fprintf(w, "  negative range   [%g, %g]\n", cfg.NegativeLo, cfg.NegativeHi)
	fmt.Fprintf(w, "  full range       [%g, %g]\n", cfg.FullLo, cfg.FullHi)
	fmt.Fprintf(w, "  step             %g\n", cfg.Step)
	fmt.Fprintf(w, "  tolerance        %g\n", cfg.Tolerance)
	fmt.Fprintf(w, "  max iterations   %d\n", cfg.MaxIterations)
	fmt.Fprintf(w, "  flat slope       %g\n", cfg.FlatSlope)
	fmt.Fprintf(w, "  dedup threshold  %g\n", cfg.DedupThreshold)
}
