package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/colify/internal/limiter"
	"github.com/oakwood-commons/colify/pkg/settings"
)

func TestParseSortOrder(t *testing.T) {
	cases := map[string]sortOrder{
		"":           sortNone,
		"none":       sortNone,
		"asc":        sortAscending,
		" Ascending": sortAscending,
		"DESC":       sortDescending,
		"descending": sortDescending,
	}
	for in, want := range cases {
		got, err := parseSortOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseSortOrder("random")
	require.Error(t, err)
}

func TestSortOrderApplyDoesNotMutateInput(t *testing.T) {
	in := []string{"b", "c", "a"}
	assert.Equal(t, []string{"a", "b", "c"}, sortAscending.apply(in))
	assert.Equal(t, []string{"c", "b", "a"}, sortDescending.apply(in))
	assert.Equal(t, []string{"b", "c", "a"}, sortNone.apply(in))
	assert.Equal(t, []string{"b", "c", "a"}, in)
}

func TestIsPiped(t *testing.T) {
	assert.True(t, isPiped(strings.NewReader("x")))

	f, err := os.CreateTemp(t.TempDir(), "labels")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	assert.True(t, isPiped(f), "regular files are not terminals")
}

func TestReadLabelsPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("file-a\nfile-b\n"), 0o600))

	run := settings.NewCliParams()
	labels, err := readLabels([]string{path}, []string{"flag"}, strings.NewReader("stdin"), run, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"flag"}, labels)
	assert.True(t, run.Input.FromFlags)

	run = settings.NewCliParams()
	labels, err = readLabels([]string{path}, nil, strings.NewReader("stdin"), run, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"file-a", "file-b"}, labels)
	assert.Equal(t, path, run.Input.Path)

	run = settings.NewCliParams()
	labels, err = readLabels(nil, nil, strings.NewReader("x\ny\n"), run, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, labels)
	assert.True(t, run.Input.FromStdin)
}

func TestPipelineApply(t *testing.T) {
	p := pipeline{
		expression: `size(_) > 1`,
		sort:       sortAscending,
		limits:     limiter.Config{Limit: 2},
	}
	out, err := p.apply([]string{"zz", "a", "yy", "xx", "b"}, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"xx", "yy"}, out)
}

func TestPipelineApplyWithoutStages(t *testing.T) {
	in := []string{"b", "a"}
	out, err := pipeline{sort: sortNone}.apply(in, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPipelineApplyExpressionError(t *testing.T) {
	_, err := pipeline{expression: "_ &&"}.apply([]string{"a"}, logr.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expression")
}
