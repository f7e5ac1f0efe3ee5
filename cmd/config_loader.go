package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/colify/pkg/colify"
	"github.com/oakwood-commons/colify/pkg/settings"
)

// fileConfig is the on-disk config.yaml schema.
//
//	colify:
//	  indent: 2
//	  padding: 2
//	  method: variable
//	  width: 100
//	  tty: true
//	sort: ascending
//	truncate: 40
type fileConfig struct {
	// Colify holds layout options by name; keys are validated by colify.OptionsFromMap.
	Colify   map[string]any `yaml:"colify"`
	Sort     string         `yaml:"sort,omitempty"`
	Truncate int            `yaml:"truncate,omitempty"`
}

// configLoader centralizes config loading so tests can swap the file reader.
type configLoader struct {
	readFile func(string) ([]byte, error)
}

var cfgLoader = configLoader{readFile: os.ReadFile}

func loadConfig(path string) (fileConfig, error) {
	return cfgLoader.load(path)
}

func (l configLoader) load(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := l.readFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	// Validate the layout section early so errors name the config file.
	if _, err := colify.OptionsFromMap(cfg.Colify); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := parseSortOrder(cfg.Sort); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/colify/config.yaml) or ~/.config/colify/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.ConfigDirName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.ConfigDirName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// effectiveConfig is what `colify config` prints: built-in defaults with the
// config file applied.
type effectiveConfig struct {
	Colify   effectiveLayout `yaml:"colify"`
	Sort     string          `yaml:"sort"`
	Truncate int             `yaml:"truncate"`
}

type effectiveLayout struct {
	Indent  int    `yaml:"indent"`
	Padding int    `yaml:"padding"`
	Method  string `yaml:"method"`
	Width   int    `yaml:"width"`
	TTY     string `yaml:"tty"`
}

func mergeConfig(cfg fileConfig) (effectiveConfig, error) {
	opts, err := colify.OptionsFromMap(cfg.Colify)
	if err != nil {
		return effectiveConfig{}, err
	}
	o, err := colify.NewOptions(opts...)
	if err != nil {
		return effectiveConfig{}, err
	}

	tty := "auto"
	if o.TTY != nil {
		tty = fmt.Sprint(*o.TTY)
	}
	sortOrder, err := parseSortOrder(cfg.Sort)
	if err != nil {
		return effectiveConfig{}, err
	}
	return effectiveConfig{
		Colify: effectiveLayout{
			Indent:  o.Indent,
			Padding: o.Padding,
			Method:  o.Method.String(),
			Width:   o.Width,
			TTY:     tty,
		},
		Sort:     string(sortOrder),
		Truncate: cfg.Truncate,
	}, nil
}

func renderConfigYAML(cfg effectiveConfig) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

// configKeys lists the layout keys a config file may set, for help output.
func configKeys() string {
	keys := []string{"indent", "padding", "method", "width", "tty"}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
