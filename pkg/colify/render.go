package colify

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"
)

// Render writes labels into the grid described by layout, filling down columns and
// emitting across rows. Each row starts with indent spaces; the last label in a row
// carries no trailing padding. It returns the layout it rendered.
func Render(w io.Writer, labels []string, layout Layout, indent int) (Layout, error) {
	n := len(labels)
	if n == 0 {
		return Layout{Widths: []int{}}, nil
	}
	if layout.Columns < 1 || len(layout.Widths) != layout.Columns {
		return Layout{}, invalidArgument("layout", "has %d columns and %d widths", layout.Columns, len(layout.Widths))
	}
	if indent < 0 {
		return Layout{}, invalidArgument("indent", "must be non-negative, got %d", indent)
	}

	rows := ceilDiv(n, layout.Columns)
	rowsLastCol := n % rows
	cols := layout.Columns
	prefix := strings.Repeat(" ", indent)

	var line strings.Builder
	for row := 0; row < rows; row++ {
		line.Reset()
		line.WriteString(prefix)
		for col := 0; col < cols; col++ {
			idx := col*rows + row
			if idx >= n {
				break
			}
			label := labels[idx]
			line.WriteString(label)
			if col < cols-1 && (col+1)*rows+row < n {
				if fill := layout.Widths[col] - utf8.RuneCountInString(label); fill > 0 {
					line.WriteString(strings.Repeat(" ", fill))
				}
			}
		}
		line.WriteByte('\n')
		if _, err := io.WriteString(w, line.String()); err != nil {
			return Layout{}, fmt.Errorf("write row %d: %w", row, err)
		}
		if row+1 == rowsLastCol {
			cols--
		}
	}

	return Layout{Columns: layout.Columns, Widths: slices.Clone(layout.Widths)}, nil
}

// renderLines writes one label per line, the fallback for non-interactive output.
func renderLines(w io.Writer, labels []string) (Layout, error) {
	for i, label := range labels {
		if _, err := io.WriteString(w, label+"\n"); err != nil {
			return Layout{}, fmt.Errorf("write line %d: %w", i, err)
		}
	}
	return Layout{Columns: 1, Widths: []int{slices.Max(labelLengths(labels))}}, nil
}
