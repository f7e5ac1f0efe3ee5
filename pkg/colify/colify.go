// Package colify prints a list of labels in terminal-width-aware columns, filling
// down each column before moving right the way ls does.
//
// Two fitting methods are available. MethodUniform gives every column the width of
// the longest label. MethodVariable sizes each column to its own longest label and
// so usually fits more columns on a line.
//
// When the output is not an interactive terminal, labels are written one per line.
package colify

import (
	"slices"
	"strings"
)

// Colify writes labels to the configured output in columns and returns the layout
// it used. Empty input writes nothing and returns a zero-column layout.
func Colify(labels []string, opts ...Option) (Layout, error) {
	o, err := NewOptions(opts...)
	if err != nil {
		return Layout{}, err
	}
	return o.colify(labels)
}

// Colified is Colify rendered into a string instead of the configured output.
func Colified(labels []string, opts ...Option) (string, error) {
	var b strings.Builder
	opts = append(slices.Clone(opts), WithOutput(&b))
	if _, err := Colify(labels, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (o Options) colify(labels []string) (Layout, error) {
	if len(labels) == 0 {
		return Layout{Widths: []int{}}, nil
	}

	lgr := o.Logger.WithValues("labels", len(labels), "method", o.Method.String())

	var interactive bool
	if o.TTY != nil {
		interactive = *o.TTY
	} else {
		interactive = o.Terminal.IsInteractive(o.Output)
	}
	if !interactive {
		lgr.V(1).Info("output is not interactive; writing one label per line")
		return renderLines(o.Output, labels)
	}

	width := o.Width
	if width == 0 {
		_, width = o.Terminal.Size()
	}
	width = max(1, width-o.Indent)

	layout, err := Plan(labels, width, o.Padding, o.Method)
	if err != nil {
		return Layout{}, err
	}
	lgr.V(1).Info("planned layout", "width", width, "columns", layout.Columns, "widths", layout.Widths)

	return Render(o.Output, labels, layout, o.Indent)
}
