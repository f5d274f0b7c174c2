package batch

import (
	"fmt"
	"os"

	"github.com/steveyegge/cubic/internal/input"
	"github.com/steveyegge/cubic/internal/types"
	"gopkg.in/yaml.v3"
)

// File is the structure of a batch equation file:
//
//	equations:
//	  - name: three roots
//	    a: 1
//	    b: 0
//	    c: -1
//	    d: 0
//	  - name: comma decimals
//	    a: "1,5"
//	    b: 0
//	    c: 0
//	    d: "-1,5"
type File struct {
	Equations []Equation `yaml:"equations"`
}

// Equation is one named cubic with unparsed coefficients
type Equation struct {
	Name string      `yaml:"name"`
	A    Coefficient `yaml:"a"`
	B    Coefficient `yaml:"b"`
	C    Coefficient `yaml:"c"`
	D    Coefficient `yaml:"d"`
}

// Coefficient keeps the raw scalar text so numbers and quoted strings
// go through the same parser as interactive input
type Coefficient string

// UnmarshalYAML accepts any scalar
func (c *Coefficient) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: coefficient must be a scalar", value.Line)
	}
	*c = Coefficient(value.Value)
	return nil
}

// Coefficients parses and validates the equation's coefficients
func (e Equation) Coefficients() (types.Coefficients, error) {
	return input.ParseCoefficients(string(e.A), string(e.B), string(e.C), string(e.D))
}

// Label names the equation for output, falling back to its position
func (e Equation) Label(index int) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("equation %d", index+1)
}

// Parse decodes a batch file
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if len(f.Equations) == 0 {
		return nil, fmt.Errorf("batch file has no equations")
	}
	return &f, nil
}

// LoadFile reads and decodes a batch file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	return Parse(data)
}
