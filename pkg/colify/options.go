package colify

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/colify/internal/terminal"
)

// Terminal answers the two questions colify needs from the environment.
type Terminal interface {
	// Size returns the terminal dimensions in character cells.
	Size() (rows, cols int)
	// IsInteractive reports whether w is connected to an interactive terminal.
	IsInteractive(w io.Writer) bool
}

// Options configures a Colify call. Use DefaultOptions or NewOptions rather than the
// zero value: a zero Padding is a legitimate setting and is not replaced by the default.
type Options struct {
	// Output receives the rendered rows. Defaults to os.Stdout.
	Output io.Writer

	// Indent is the number of spaces written at the start of every row.
	Indent int

	// Padding is the number of spaces between adjacent columns.
	Padding int

	// TTY forces grid output (true) or one label per line (false).
	// nil asks Terminal whether Output is interactive.
	TTY *bool

	// Method selects the column fitting strategy.
	Method Method

	// Width overrides the detected terminal width when > 0.
	Width int

	// Terminal probes size and interactivity. Defaults to the process terminal.
	Terminal Terminal

	// Logger receives debug output about the chosen layout.
	Logger logr.Logger
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the defaults: stdout, no indent, two spaces of padding,
// autodetected tty and width, variable-width columns.
func DefaultOptions() Options {
	return Options{
		Output:   os.Stdout,
		Padding:  2,
		Method:   MethodVariable,
		Terminal: terminal.New(),
		Logger:   logr.Discard(),
	}
}

// NewOptions applies opts on top of DefaultOptions and validates the result.
func NewOptions(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.Validate(); err != nil {
		return o, err
	}
	return o, nil
}

// Validate checks that every field holds a usable value.
func (o Options) Validate() error {
	if o.Output == nil {
		return invalidArgument("output", "must not be nil")
	}
	if o.Indent < 0 {
		return invalidArgument("indent", "must be non-negative, got %d", o.Indent)
	}
	if o.Padding < 0 {
		return invalidArgument("padding", "must be non-negative, got %d", o.Padding)
	}
	if o.Width < 0 {
		return invalidArgument("width", "must be non-negative, got %d", o.Width)
	}
	if !o.Method.valid() {
		return invalidArgument("method", "must be one of: %s", methodNames())
	}
	if o.Terminal == nil {
		return invalidArgument("terminal", "must not be nil")
	}
	return nil
}

// WithOutput sets the sink rows are written to.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithIndent sets the leading spaces per row.
func WithIndent(n int) Option {
	return func(o *Options) {
		o.Indent = n
	}
}

// WithPadding sets the spaces between columns.
func WithPadding(n int) Option {
	return func(o *Options) {
		o.Padding = n
	}
}

// WithTTY forces interactive (true) or single-column (false) output.
func WithTTY(tty bool) Option {
	return func(o *Options) {
		o.TTY = &tty
	}
}

// WithMethod sets the column fitting strategy.
func WithMethod(m Method) Option {
	return func(o *Options) {
		o.Method = m
	}
}

// WithWidth overrides the detected terminal width.
func WithWidth(n int) Option {
	return func(o *Options) {
		o.Width = n
	}
}

// WithTerminal replaces the terminal probe.
func WithTerminal(t Terminal) Option {
	return func(o *Options) {
		o.Terminal = t
	}
}

// WithLogger sets the logger used for layout diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// OptionsFromMap converts keyword-style options, as decoded from a config file, into
// Options. Recognized keys: output, indent, padding, tty, method, width.
// Any other key is rejected with an ArgumentError naming it.
func OptionsFromMap(m map[string]any) ([]Option, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]Option, 0, len(keys))
	for _, key := range keys {
		value := m[key]
		switch key {
		case "output":
			w, ok := value.(io.Writer)
			if !ok {
				return nil, invalidArgument(key, "must be a writer, got %T", value)
			}
			opts = append(opts, WithOutput(w))
		case "indent", "padding", "width":
			n, ok := asInt(value)
			if !ok {
				return nil, invalidArgument(key, "must be an int, got %T", value)
			}
			switch key {
			case "indent":
				opts = append(opts, WithIndent(n))
			case "padding":
				opts = append(opts, WithPadding(n))
			default:
				opts = append(opts, WithWidth(n))
			}
		case "tty":
			if value == nil {
				continue
			}
			b, ok := value.(bool)
			if !ok {
				return nil, invalidArgument(key, "must be a bool, got %T", value)
			}
			opts = append(opts, WithTTY(b))
		case "method":
			var m Method
			switch v := value.(type) {
			case Method:
				m = v
			case string:
				parsed, err := ParseMethod(v)
				if err != nil {
					return nil, err
				}
				m = parsed
			default:
				return nil, invalidArgument(key, "must be a string, got %T", value)
			}
			opts = append(opts, WithMethod(m))
		default:
			return nil, invalidArgument(key, "is an invalid option")
		}
	}
	return opts, nil
}

// asInt accepts the integer shapes yaml.v3 and encoding/json produce.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
