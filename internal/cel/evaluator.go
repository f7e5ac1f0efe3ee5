package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
)

// Variable names bound for every label.
const (
	LabelVar = "_"
	IndexVar = "i"
)

// Evaluator runs one compiled CEL expression against each label.
// A bool result keeps (true) or drops (false) the label; a string result replaces it.
type Evaluator struct {
	expr string
	prg  cel.Program
}

// newLabelEnv creates the CEL environment labels are evaluated in.
// Additional options can be provided to extend the environment (e.g., custom functions).
func newLabelEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 6+len(opts))
	allOpts = append(allOpts,
		cel.Variable(LabelVar, cel.StringType),
		cel.Variable(IndexVar, cel.IntType),
		// Enable common extension libraries so labels can be sliced and reformatted
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// NewEvaluator compiles expr. The expression must produce a bool or a string.
func NewEvaluator(expr string) (*Evaluator, error) {
	env, err := newLabelEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	// Compile the expression (parse + type check)
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	switch ast.OutputType().Kind() {
	case types.BoolKind, types.StringKind, types.DynKind:
	default:
		return nil, fmt.Errorf("expression must return bool or string, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Evaluator{expr: expr, prg: prg}, nil
}

// Expression returns the source the evaluator was compiled from.
func (e *Evaluator) Expression() string {
	return e.expr
}

// Evaluate runs the expression for one label. keep is false when the label should
// be dropped; out is the label to display when it is kept.
func (e *Evaluator) Evaluate(label string, index int) (out string, keep bool, err error) {
	result, _, err := e.prg.Eval(map[string]any{
		LabelVar: label,
		IndexVar: int64(index),
	})
	if err != nil {
		return "", false, fmt.Errorf("eval error: %w", err)
	}
	return convert(label, result)
}

// Apply evaluates every label and returns the kept, possibly rewritten, labels.
func (e *Evaluator) Apply(labels []string) ([]string, error) {
	out := make([]string, 0, len(labels))
	for i, label := range labels {
		l, keep, err := e.Evaluate(label, i)
		if err != nil {
			return nil, fmt.Errorf("label %d (%q): %w", i, label, err)
		}
		if keep {
			out = append(out, l)
		}
	}
	return out, nil
}

func convert(label string, val ref.Val) (string, bool, error) {
	switch v := val.(type) {
	case types.Bool:
		return label, bool(v), nil
	case types.String:
		return string(v), true, nil
	default:
		return "", false, fmt.Errorf("expression returned %s, want bool or string", val.Type().TypeName())
	}
}
