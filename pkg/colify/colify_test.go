package colify

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTerminal struct {
	rows, cols  int
	interactive bool
	asked       []io.Writer
}

func (f *fakeTerminal) Size() (int, int) { return f.rows, f.cols }

func (f *fakeTerminal) IsInteractive(w io.Writer) bool {
	f.asked = append(f.asked, w)
	return f.interactive
}

var scenarioLabels = []string{"a", "bb", "ccc", "dddd", "e"}

func TestColifyInteractive(t *testing.T) {
	var buf bytes.Buffer
	term := &fakeTerminal{rows: 24, cols: 20, interactive: true}

	layout, err := Colify(scenarioLabels, WithOutput(&buf), WithTerminal(term))
	require.NoError(t, err)
	assert.Equal(t, Layout{Columns: 5, Widths: []int{3, 4, 5, 6, 1}}, layout)
	assert.Equal(t, "a  bb  ccc  dddd  e\n", buf.String())
	require.Len(t, term.asked, 1)
	assert.Same(t, &buf, term.asked[0])
}

func TestColifyUniform(t *testing.T) {
	var buf bytes.Buffer
	layout, err := Colify(scenarioLabels,
		WithOutput(&buf),
		WithTTY(true),
		WithWidth(20),
		WithMethod(MethodUniform),
		WithTerminal(&fakeTerminal{}),
	)
	require.NoError(t, err)
	assert.Equal(t, Layout{Columns: 3, Widths: []int{6, 6, 6}}, layout)
	assert.Equal(t, "a     ccc   e\nbb    dddd\n", buf.String())
}

func TestColifyNonInteractiveFallback(t *testing.T) {
	var buf bytes.Buffer
	term := &fakeTerminal{cols: 200}

	layout, err := Colify(scenarioLabels, WithOutput(&buf), WithTerminal(term))
	require.NoError(t, err)
	assert.Equal(t, Layout{Columns: 1, Widths: []int{4}}, layout)
	assert.Equal(t, "a\nbb\nccc\ndddd\ne\n", buf.String())
}

func TestColifyForcedSingleColumn(t *testing.T) {
	var buf bytes.Buffer
	term := &fakeTerminal{cols: 200, interactive: true}

	layout, err := Colify(scenarioLabels, WithOutput(&buf), WithTerminal(term), WithTTY(false), WithIndent(3))
	require.NoError(t, err)
	assert.Equal(t, Layout{Columns: 1, Widths: []int{4}}, layout)
	assert.Equal(t, "a\nbb\nccc\ndddd\ne\n", buf.String())
	assert.Empty(t, term.asked, "forced tty must not probe the terminal")
}

func TestColifyIndentReducesWidth(t *testing.T) {
	var buf bytes.Buffer
	layout, err := Colify(scenarioLabels,
		WithOutput(&buf),
		WithTTY(true),
		WithWidth(24),
		WithIndent(4),
		WithTerminal(&fakeTerminal{}),
	)
	require.NoError(t, err)
	assert.Equal(t, 5, layout.Columns)
	assert.Equal(t, "    a  bb  ccc  dddd  e\n", buf.String())

	// Four fewer cells no longer fit every label on one row.
	buf.Reset()
	layout, err = Colify(scenarioLabels,
		WithOutput(&buf),
		WithTTY(true),
		WithWidth(20),
		WithIndent(4),
		WithTerminal(&fakeTerminal{}),
	)
	require.NoError(t, err)
	assert.Less(t, layout.Columns, 5)
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "    "))
		assert.LessOrEqual(t, len(line), 20)
	}
}

func TestColifyEmpty(t *testing.T) {
	var buf bytes.Buffer
	term := &fakeTerminal{interactive: true, cols: 80}
	layout, err := Colify(nil, WithOutput(&buf), WithTerminal(term))
	require.NoError(t, err)
	assert.Equal(t, 0, layout.Columns)
	assert.Empty(t, layout.Widths)
	assert.Zero(t, buf.Len())
	assert.Empty(t, term.asked)
}

func TestColifyInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		key  string
	}{
		{name: "negative indent", opts: []Option{WithIndent(-1)}, key: "indent"},
		{name: "negative padding", opts: []Option{WithPadding(-2)}, key: "padding"},
		{name: "negative width", opts: []Option{WithWidth(-80)}, key: "width"},
		{name: "unknown method", opts: []Option{WithMethod(Method(42))}, key: "method"},
		{name: "nil output", opts: []Option{WithOutput(nil)}, key: "output"},
		{name: "nil terminal", opts: []Option{WithTerminal(nil)}, key: "terminal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := append([]Option{WithOutput(&buf)}, tt.opts...)
			_, err := Colify(scenarioLabels, opts...)
			require.ErrorIs(t, err, ErrInvalidArgument)
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.key, argErr.Key)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestColified(t *testing.T) {
	var other bytes.Buffer
	out, err := Colified(scenarioLabels,
		WithOutput(&other),
		WithTTY(true),
		WithWidth(20),
		WithTerminal(&fakeTerminal{}),
	)
	require.NoError(t, err)
	assert.Equal(t, "a  bb  ccc  dddd  e\n", out)
	assert.Zero(t, other.Len())
}

func TestColifiedBufferIsNotInteractive(t *testing.T) {
	out, err := Colified([]string{"x", "y"}, WithTerminal(&fakeTerminal{cols: 80}))
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", out)
}

func TestColifyLogsLayout(t *testing.T) {
	var logged []string
	lgr := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{Verbosity: 1})

	_, err := Colified(scenarioLabels,
		WithTTY(true),
		WithWidth(20),
		WithTerminal(&fakeTerminal{}),
		WithLogger(lgr),
	)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], `"planned layout"`)
	assert.Contains(t, logged[0], `"columns"=5`)
}

func TestOptionsFromMap(t *testing.T) {
	t.Run("all keys", func(t *testing.T) {
		var buf bytes.Buffer
		opts, err := OptionsFromMap(map[string]any{
			"output":  &buf,
			"indent":  2,
			"padding": int64(3),
			"tty":     true,
			"method":  "uniform",
			"width":   float64(100),
		})
		require.NoError(t, err)

		o, err := NewOptions(opts...)
		require.NoError(t, err)
		assert.Same(t, &buf, o.Output)
		assert.Equal(t, 2, o.Indent)
		assert.Equal(t, 3, o.Padding)
		require.NotNil(t, o.TTY)
		assert.True(t, *o.TTY)
		assert.Equal(t, MethodUniform, o.Method)
		assert.Equal(t, 100, o.Width)
	})

	t.Run("nil tty keeps autodetect", func(t *testing.T) {
		opts, err := OptionsFromMap(map[string]any{"tty": nil})
		require.NoError(t, err)
		o, err := NewOptions(opts...)
		require.NoError(t, err)
		assert.Nil(t, o.TTY)
	})

	t.Run("method value", func(t *testing.T) {
		opts, err := OptionsFromMap(map[string]any{"method": MethodUniform})
		require.NoError(t, err)
		o, err := NewOptions(opts...)
		require.NoError(t, err)
		assert.Equal(t, MethodUniform, o.Method)
	})

	errorTests := []struct {
		name string
		in   map[string]any
		key  string
	}{
		{name: "unknown key", in: map[string]any{"foo": 1}, key: "foo"},
		{name: "first unknown key in order", in: map[string]any{"zeta": 1, "beta": 2, "width": 3}, key: "beta"},
		{name: "string width", in: map[string]any{"width": "80"}, key: "width"},
		{name: "fractional width", in: map[string]any{"width": 80.5}, key: "width"},
		{name: "numeric method", in: map[string]any{"method": 3}, key: "method"},
		{name: "bad method", in: map[string]any{"method": "diagonal"}, key: "method"},
		{name: "string tty", in: map[string]any{"tty": "yes"}, key: "tty"},
		{name: "output path", in: map[string]any{"output": "/tmp/out"}, key: "output"},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptionsFromMap(tt.in)
			require.ErrorIs(t, err, ErrInvalidArgument)
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.key, argErr.Key)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, o.Validate())
	assert.Equal(t, 0, o.Indent)
	assert.Equal(t, 2, o.Padding)
	assert.Nil(t, o.TTY)
	assert.Equal(t, MethodVariable, o.Method)
	assert.Equal(t, 0, o.Width)
	assert.NotNil(t, o.Output)
	assert.NotNil(t, o.Terminal)
}
