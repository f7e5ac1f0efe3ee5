package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/colify/internal/cel"
	"github.com/oakwood-commons/colify/internal/limiter"
	"github.com/oakwood-commons/colify/pkg/loader"
	"github.com/oakwood-commons/colify/pkg/settings"
)

// errShowHelp is returned by readLabels when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

type sortOrder string

const (
	sortNone       sortOrder = "none"
	sortAscending  sortOrder = "ascending"
	sortDescending sortOrder = "descending"
)

func parseSortOrder(value string) (sortOrder, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	switch s {
	case "", "none":
		return sortNone, nil
	case "asc", "ascending":
		return sortAscending, nil
	case "desc", "descending":
		return sortDescending, nil
	default:
		return sortNone, fmt.Errorf("invalid sort order %q (expected ascending, descending, or none)", value)
	}
}

func (s sortOrder) apply(labels []string) []string {
	switch s {
	case sortAscending:
		out := slices.Clone(labels)
		slices.Sort(out)
		return out
	case sortDescending:
		out := slices.Clone(labels)
		slices.Sort(out)
		slices.Reverse(out)
		return out
	default:
		return labels
	}
}

// isPiped reports whether r has data waiting rather than being an interactive
// terminal. Readers that are not files (tests, pipes wrapped by callers) count as piped.
func isPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readLabels collects labels from --labels, a file argument, or piped stdin, in that
// order of precedence, and records the source in run.
func readLabels(args []string, inline []string, stdin io.Reader, run *settings.Run, lgr logr.Logger) ([]string, error) {
	switch {
	case len(inline) > 0:
		run.Input.FromFlags = true
		lgr.V(1).Info("using labels from --labels", "count", len(inline))
		return inline, nil
	case len(args) > 0:
		run.Input.Path = args[0]
		labels, err := loader.LoadFileWithLogger(args[0], lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to load labels from %s: %w", args[0], err)
		}
		return labels, nil
	case isPiped(stdin):
		run.Input.FromStdin = true
		labels, err := loader.LoadReader(stdin, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to read labels from stdin: %w", err)
		}
		return labels, nil
	default:
		return nil, errShowHelp
	}
}

// pipeline turns raw labels into the labels that get laid out.
type pipeline struct {
	expression string
	sort       sortOrder
	limits     limiter.Config
}

// apply runs the expression, then sorting, then record limiting and truncation.
func (p pipeline) apply(labels []string, lgr logr.Logger) ([]string, error) {
	if strings.TrimSpace(p.expression) != "" {
		eval, err := cel.NewEvaluator(p.expression)
		if err != nil {
			return nil, fmt.Errorf("invalid expression: %w", err)
		}
		before := len(labels)
		labels, err = eval.Apply(labels)
		if err != nil {
			return nil, err
		}
		lgr.V(1).Info("applied expression", "expression", p.expression, "before", before, "after", len(labels))
	}

	labels = p.sort.apply(labels)

	if p.limits.IsActive() {
		labels = p.limits.Apply(labels)
	}
	return labels, nil
}
