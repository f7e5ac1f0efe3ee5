package colify

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Method selects a column fitting strategy.
type Method int

const (
	// MethodVariable gives every column the width of its own widest label.
	MethodVariable Method = iota
	// MethodUniform gives every column the width of the widest label overall.
	MethodUniform
)

var methodByName = map[string]Method{
	"variable": MethodVariable,
	"uniform":  MethodUniform,
}

// ParseMethod maps "variable" or "uniform" to a Method.
func ParseMethod(s string) (Method, error) {
	m, ok := methodByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return MethodVariable, invalidArgument("method", "must be one of: %s (got %q)", methodNames(), s)
	}
	return m, nil
}

func (m Method) String() string {
	switch m {
	case MethodVariable:
		return "variable"
	case MethodUniform:
		return "uniform"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

func (m Method) valid() bool {
	return m == MethodVariable || m == MethodUniform
}

func methodNames() string {
	return "variable, uniform"
}

// planFunc computes a layout from label lengths. lengths is never empty.
type planFunc func(lengths []int, width, padding int) Layout

func (m Method) planner() planFunc {
	switch m {
	case MethodVariable:
		return planVariable
	case MethodUniform:
		return planUniform
	default:
		return nil
	}
}

// Layout is the number of columns and the width assigned to each.
// Every width except the last includes the inter-column padding.
type Layout struct {
	Columns int
	Widths  []int
}

// Plan picks a column layout for labels that fits in width cells.
// When no multi-column layout fits, the result is a single column as wide as the
// longest label.
func Plan(labels []string, width, padding int, method Method) (Layout, error) {
	if len(labels) == 0 {
		return Layout{}, invalidArgument("labels", "must not be empty")
	}
	if width < 1 {
		return Layout{}, invalidArgument("width", "must be at least 1, got %d", width)
	}
	if padding < 0 {
		return Layout{}, invalidArgument("padding", "must be non-negative, got %d", padding)
	}
	plan := method.planner()
	if plan == nil {
		return Layout{}, invalidArgument("method", "must be one of: %s", methodNames())
	}
	return plan(labelLengths(labels), width, padding), nil
}

func labelLengths(labels []string) []int {
	lengths := make([]int, len(labels))
	for i, l := range labels {
		lengths[i] = utf8.RuneCountInString(l)
	}
	return lengths
}

func planUniform(lengths []int, width, padding int) Layout {
	n := len(lengths)
	longest := slices.Max(lengths)
	colWidth := longest + padding

	cols := n
	if colWidth > 0 {
		cols = max(1, min(n, width/colWidth))
	}
	cols = occupiedColumns(n, cols)
	if cols == 1 {
		return Layout{Columns: 1, Widths: []int{longest}}
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = colWidth
	}
	return Layout{Columns: cols, Widths: widths}
}

// candidate tracks one column count during variable fitting.
type candidate struct {
	cols       int
	rows       int
	widths     []int
	lineLength int
	valid      bool
}

func planVariable(lengths []int, width, padding int) Layout {
	n := len(lengths)

	maxCols := n
	if step := slices.Min(lengths) + padding; step > 0 {
		maxCols = max(1, width/step)
	}
	maxCols = min(n, maxCols)

	candidates := make([]candidate, maxCols)
	for i := range candidates {
		cols := i + 1
		candidates[i] = candidate{
			cols:   cols,
			rows:   ceilDiv(n, cols),
			widths: make([]int, cols),
			valid:  true,
		}
	}

	for idx, length := range lengths {
		for i := range candidates {
			c := &candidates[i]
			if !c.valid {
				continue
			}
			col := idx / c.rows
			padded := length
			if col < c.cols-1 {
				padded += padding
			}
			if c.widths[col] < padded {
				c.lineLength += padded - c.widths[col]
				c.widths[col] = padded
				c.valid = c.lineLength <= width
			}
		}
	}

	// Largest valid count wins.
	var chosen *candidate
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].valid {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		// Invalid candidates stop tracking widths, so measure the fallback directly.
		return Layout{Columns: 1, Widths: []int{slices.Max(lengths)}}
	}

	cols := ceilDiv(n, chosen.rows)
	return Layout{Columns: cols, Widths: slices.Clone(chosen.widths[:cols])}
}

// occupiedColumns returns how many of cols columns a column-major fill of n items uses.
func occupiedColumns(n, cols int) int {
	return ceilDiv(n, ceilDiv(n, cols))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
