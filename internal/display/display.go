// Package display renders solutions for the terminal
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/steveyegge/cubic/internal/types"
)

// FormatRoot formats a root with six decimal places
func FormatRoot(x float64) string {
	return fmt.Sprintf("%.6f", x)
}

// Label returns the 1-based root label for index i
func Label(i int) string {
	return fmt.Sprintf("x%d", i+1)
}

// Render prints the negative roots followed by the full root list.
// Negative entries of the full list are highlighted.
func Render(w io.Writer, sol *types.Solution) {
	header := color.New(color.FgCyan, color.Bold)
	highlight := color.New(color.FgGreen, color.Bold)
	gray := color.New(color.FgHiBlack)

	switch {
	case len(sol.Negative) > 0:
		header.Fprintln(w, "Negative roots:")
		for i, r := range sol.Negative {
			fmt.Fprintf(w, "  %s = %s\n", Label(i), highlight.Sprint(FormatRoot(r)))
		}
	case len(sol.All) > 0:
		gray.Fprintln(w, "No negative roots found")
	}

	if len(sol.All) == 0 {
		gray.Fprintln(w, "No roots found in the search range")
		return
	}

	fmt.Fprintln(w)
	header.Fprintln(w, "All roots:")
	for i, r := range sol.All {
		value := FormatRoot(r)
		if r < 0 {
			value = highlight.Sprint(value)
		}
		fmt.Fprintf(w, "  %s = %s\n", Label(i), value)
	}
}

// RenderList prints a titled, labeled root list, or empty when there are no roots
func RenderList(w io.Writer, title string, roots []float64, empty string) {
	if len(roots) == 0 {
		color.New(color.FgHiBlack).Fprintln(w, empty)
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintln(w, title)
	for i, r := range roots {
		fmt.Fprintf(w, "  %s = %s\n", Label(i), FormatRoot(r))
	}
}

// RenderJSON writes the solution as indented JSON
func RenderJSON(w io.Writer, sol *types.Solution) error {
	out := *sol
	// empty lists encode as [] rather than null
	if out.Negative == nil {
		out.Negative = []float64{}
	}
	if out.All == nil {
		out.All = []float64{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode solution: %w", err)
	}
	return nil
}

// RenderRecords prints one line per history record, newest first as given
func RenderRecords(w io.Writer, records []*types.SolveRecord) {
	if len(records) == 0 {
		green := color.New(color.FgGreen)
		fmt.Fprintf(w, "%s No solves recorded\n", green.Sprint("✓"))
		return
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	for _, rec := range records {
		id := rec.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s %s %s\n",
			cyan.Sprint(id),
			gray.Sprint(rec.CreatedAt.Format("2006-01-02 15:04:05")),
			rec.Coefficients.String())
		fmt.Fprintf(w, "  negative: %s | all: %s | %s, %s\n",
			joinRoots(rec.Negative), joinRoots(rec.All), rec.Source, rec.Duration.Round(time.Microsecond))
	}
}

func joinRoots(roots []float64) string {
	if len(roots) == 0 {
		return "-"
	}
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = FormatRoot(r)
	}
	return strings.Join(parts, ", ")
}
