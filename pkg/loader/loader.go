// Package loader reads the labels to lay out from files, stdin or byte slices.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LabelsKey is the key holding the label list in TOML documents and in
// JSON/YAML objects.
const LabelsKey = "labels"

// Format identifies how an input was parsed.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatLines Format = "lines"
)

// LoadLabels parses labels from input, auto-detecting the format.
// Supports:
// - JSON array, or JSON object with a "labels" array
// - YAML sequence (single or multi-document), or mapping with a "labels" sequence
// - TOML with a top-level "labels" array
// - Plain text: one label per non-blank line
//
// Non-string elements are converted with fmt.Sprint. Empty input yields no labels.
func LoadLabels(input string) ([]string, error) {
	return LoadLabelsWithLogger([]byte(input), logr.Discard())
}

// LoadLabelsWithLogger is like LoadLabels but records detection and fallback
// decisions at V(1).
func LoadLabelsWithLogger(data []byte, lgr logr.Logger) ([]string, error) {
	labels, _, err := detect(string(data), lgr)
	return labels, err
}

// LoadFile reads labels from a file, dispatching on its extension first.
func LoadFile(path string) ([]string, error) {
	return LoadFileWithLogger(path, logr.Discard())
}

// LoadFileWithLogger is like LoadFile but accepts a logger for recording
// extension-based dispatch and fallback parse attempts.
func LoadFileWithLogger(path string, lgr logr.Logger) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	input := string(data)
	lgr = lgr.WithValues("path", path)

	format, ok := formatForExtension(path)
	if !ok {
		labels, _, err := detect(input, lgr)
		return labels, err
	}
	lgr.V(1).Info("parsing by file extension", "format", format)
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	return parse(input, format)
}

// LoadReader reads all of r and parses it with auto-detection.
func LoadReader(r io.Reader, lgr logr.Logger) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return LoadLabelsWithLogger(data, lgr)
}

func formatForExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".txt", ".list":
		return FormatLines, true
	default:
		return "", false
	}
}

// detect applies content heuristics. A structured format that fails to parse
// falls through to plain lines.
func detect(input string, lgr logr.Logger) ([]string, Format, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, FormatLines, nil
	}

	var candidates []Format
	switch {
	case strings.HasPrefix(trimmed, "[") && !isLikelyTOML(trimmed):
		candidates = append(candidates, FormatJSON, FormatYAML)
	case strings.HasPrefix(trimmed, "{"):
		candidates = append(candidates, FormatJSON, FormatYAML)
	case strings.HasPrefix(trimmed, "---") || isLikelyYAMLSequence(trimmed) || isLikelyYAMLMapping(trimmed):
		candidates = append(candidates, FormatYAML)
	case tomlLabelsPattern.MatchString(trimmed) || isLikelyTOML(trimmed):
		candidates = append(candidates, FormatTOML)
	}

	for _, format := range candidates {
		labels, err := parse(input, format)
		if err == nil {
			lgr.V(1).Info("detected label format", "format", format, "count", len(labels))
			return labels, format, nil
		}
		lgr.V(1).Info("parse attempt failed; trying next format", "format", format, "error", err.Error())
	}
	return loadLines(input), FormatLines, nil
}

func parse(input string, format Format) ([]string, error) {
	switch format {
	case FormatJSON:
		return loadJSON(input)
	case FormatYAML:
		return loadYAML(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatLines:
		return loadLines(input), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// loadJSON parses a JSON array or an object with a labels array.
func loadJSON(input string) ([]string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return toLabels(data)
}

// loadYAML parses one or more YAML documents. Each document contributes its
// sequence (or labels sequence) in order.
func loadYAML(input string) ([]string, error) {
	decoder := yaml.NewDecoder(strings.NewReader(input))

	var labels []string
	docs := 0
	for {
		var doc interface{}
		if err := decoder.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if doc == nil {
			continue
		}
		docs++
		got, err := toLabels(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", docs, err)
		}
		labels = append(labels, got...)
	}

	if docs == 0 {
		return nil, fmt.Errorf("no documents found in YAML")
	}
	return labels, nil
}

// loadTOML parses TOML content with a top-level labels array.
func loadTOML(input string) ([]string, error) {
	var data map[string]interface{}
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return toLabels(data)
}

// loadLines treats every non-blank line as a label, dropping line endings and
// trailing whitespace.
func loadLines(input string) []string {
	lines := strings.Split(input, "\n")
	labels := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		labels = append(labels, line)
	}
	return labels
}

func toLabels(data interface{}) ([]string, error) {
	var list []interface{}
	switch v := data.(type) {
	case []interface{}:
		list = v
	case map[string]interface{}:
		raw, ok := v[LabelsKey]
		if !ok {
			return nil, fmt.Errorf("object has no %q key", LabelsKey)
		}
		l, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%q must be a list, got %T", LabelsKey, raw)
		}
		list = l
	default:
		return nil, fmt.Errorf("expected a list of labels, got %T", data)
	}

	labels := make([]string, len(list))
	for i, elem := range list {
		switch e := elem.(type) {
		case string:
			labels[i] = e
		case nil:
			labels[i] = ""
		case []interface{}, map[string]interface{}:
			return nil, fmt.Errorf("element [%d]: nested %T is not a label", i, elem)
		default:
			labels[i] = fmt.Sprint(e)
		}
	}
	return labels, nil
}

var (
	yamlItemPattern = regexp.MustCompile(`^-(\s|$)`)
	yamlKeyPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*:(\s|$)`)

	// A multi-line TOML array only has one key = value line.
	tomlLabelsPattern = regexp.MustCompile(`(?m)^\s*` + LabelsKey + `\s*=\s*\[`)
)

// isLikelyYAMLSequence heuristic: every non-blank, non-comment line at column zero
// is a "- item" entry.
func isLikelyYAMLSequence(input string) bool {
	items := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if line != strings.TrimLeft(line, " \t") {
			continue
		}
		if !yamlItemPattern.MatchString(line) {
			return false
		}
		items++
	}
	return items > 0
}

// isLikelyYAMLMapping heuristic: the document opens with "labels:".
func isLikelyYAMLMapping(input string) bool {
	first := strings.SplitN(input, "\n", 2)[0]
	return yamlKeyPattern.MatchString(first) && strings.HasPrefix(first, LabelsKey+":")
}

// isLikelyTOML heuristic: returns true if the input looks like TOML.
// Detects TOML by looking for section headers [name] or key = value patterns
// that are distinct from YAML syntax.
func isLikelyTOML(input string) bool {
	lines := strings.Split(input, "\n")

	// Pattern for TOML section headers: [section] or [[array]]
	// Excludes JSON arrays like [1, 2, 3] which have spaces/commas without quotes
	sectionPattern := regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)

	// Pattern for TOML key = value (not key: value which is YAML)
	keyValuePattern := regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)

	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		if sectionPattern.MatchString(line) {
			sectionCount++
		}
		if keyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
