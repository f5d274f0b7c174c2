package types

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Coefficients define one cubic a·x³ − b·x² + c·x + d
type Coefficients struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
	D float64 `json:"d" yaml:"d"`
}

// Validate checks that the coefficients describe a real cubic.
// The solver does not call this; front ends must reject invalid input
// before solving.
func (c Coefficients) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"a", c.A}, {"b", c.B}, {"c", c.C}, {"d", c.D}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("coefficient '%s' must be finite (got %v)", v.name, v.value)
		}
	}
	if c.A == 0 {
		return fmt.Errorf("coefficient 'a' cannot be 0")
	}
	return nil
}

// String renders the polynomial with each sign taken from its term, so
// b = 6 reads "− 6·x²" and b = -6 reads "+ 6·x²"
func (c Coefficients) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%g·x³", c.A)
	for _, term := range []struct {
		value float64
		power string
	}{
		{-c.B, "·x²"},
		{c.C, "·x"},
		{c.D, ""},
	} {
		sign := "+"
		if math.Signbit(term.value) {
			sign = "−"
		}
		fmt.Fprintf(&sb, " %s %g%s", sign, math.Abs(term.value), term.power)
	}
	return sb.String()
}

// Solution is the result of scanning one cubic over both search ranges
type Solution struct {
	Coefficients Coefficients `json:"coefficients"`
	Negative     []float64    `json:"negative_roots"`
	All          []float64    `json:"all_roots"`
}

// Source identifies which front end produced a solve
type Source string

const (
	SourceCLI   Source = "cli"
	SourceREPL  Source = "repl"
	SourceBatch Source = "batch"
)

// IsValid checks if the source value is valid
func (s Source) IsValid() bool {
	switch s {
	case SourceCLI, SourceREPL, SourceBatch:
		return true
	}
	return false
}

// SolveRecord is one persisted solve in the history
type SolveRecord struct {
	ID           string        `json:"id"`
	Coefficients Coefficients  `json:"coefficients"`
	Negative     []float64     `json:"negative_roots"`
	All          []float64     `json:"all_roots"`
	Source       Source        `json:"source"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Validate checks if the record has valid field values
func (r *SolveRecord) Validate() error {
	if err := r.Coefficients.Validate(); err != nil {
		return err
	}
	if !r.Source.IsValid() {
		return fmt.Errorf("invalid source: %s", r.Source)
	}
	if r.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

// Solution returns the recorded roots as a Solution
func (r *SolveRecord) Solution() *Solution {
	return &Solution{
		Coefficients: r.Coefficients,
		Negative:     r.Negative,
		All:          r.All,
	}
}

// NewSolveRecord builds a history record from a solution
func NewSolveRecord(sol *Solution, source Source, took time.Duration) *SolveRecord {
	return &SolveRecord{
		Coefficients: sol.Coefficients,
		Negative:     sol.Negative,
		All:          sol.All,
		Source:       source,
		Duration:     took,
	}
}
