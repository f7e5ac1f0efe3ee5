// Package settings provides build metadata, per-run configuration, and
// context helpers shared by the colify CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "colify"

// ConfigDirName is the directory under $XDG_CONFIG_HOME (or ~/.config) holding config.yaml.
const ConfigDirName = "colify"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings records where the labels of a run come from.
type InputSettings struct {
	FromStdin bool
	FromFlags bool
	Path      string
}

// Run holds configuration settings for a single execution of the CLI.
type Run struct {
	MinLogLevel int8
	Input       InputSettings
	ConfigPath  string
	ShowStats   bool
}

// NewCliParams returns a Run with the CLI defaults: info-level logging, no
// input selected yet, and no layout statistics.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
	}
}
