// Package input turns user-entered coefficient text into validated
// coefficients. Both '.' and ',' are accepted as the decimal separator.
package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/steveyegge/cubic/internal/types"
)

var (
	// ErrNotANumber is returned when any coefficient fails to parse
	ErrNotANumber = errors.New("all coefficients must be numbers")
	// ErrZeroLeading is returned when a == 0
	ErrZeroLeading = errors.New("coefficient 'a' cannot be 0")
)

// Names lists the coefficient names in input order
var Names = [4]string{"a", "b", "c", "d"}

// ParseCoefficient parses one coefficient, accepting a comma decimal separator
func ParseCoefficient(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if clean == "" {
		return 0, fmt.Errorf("%w: empty value", ErrNotANumber)
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrNotANumber, s)
	}
	return v, nil
}

// ParseCoefficients parses and validates the four coefficient fields.
// Every field is parsed before a == 0 is checked, so a non-number anywhere
// takes precedence over a zero leading coefficient.
func ParseCoefficients(a, b, c, d string) (types.Coefficients, error) {
	var vals [4]float64
	for i, s := range [4]string{a, b, c, d} {
		v, err := ParseCoefficient(s)
		if err != nil {
			return types.Coefficients{}, fmt.Errorf("coefficient '%s': %w", Names[i], err)
		}
		vals[i] = v
	}

	coeffs := types.Coefficients{A: vals[0], B: vals[1], C: vals[2], D: vals[3]}
	if coeffs.A == 0 {
		return types.Coefficients{}, ErrZeroLeading
	}
	return coeffs, nil
}

// ParseArgs parses exactly four whitespace-separated arguments
func ParseArgs(args []string) (types.Coefficients, error) {
	if len(args) != 4 {
		return types.Coefficients{}, fmt.Errorf("expected 4 coefficients (a b c d), got %d", len(args))
	}
	return ParseCoefficients(args[0], args[1], args[2], args[3])
}

// Message returns the user-facing text for a parse error
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNotANumber):
		return "Error: " + ErrNotANumber.Error()
	case errors.Is(err, ErrZeroLeading):
		return "Error: " + ErrZeroLeading.Error()
	default:
		return "Error: " + err.Error()
	}
}
