package limiter

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// Config holds the label-limiting parameters.
type Config struct {
	Limit    int // Show only this many labels (0 = unlimited)
	Offset   int // Skip the first N labels (0 = no skip)
	Tail     int // Show only the last N labels (0 = disabled); mutually exclusive with Limit
	Truncate int // Cut labels wider than this many cells (0 = disabled)
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
// - Truncate must leave room for at least one character before the ellipsis
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Truncate < 0 {
		return fmt.Errorf("--truncate must be non-negative, got %d", c.Truncate)
	}
	if c.Truncate == 1 {
		return fmt.Errorf("--truncate must be at least 2 to fit the ellipsis")
	}

	// Check for mutually exclusive flags
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}

	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0 || c.Truncate > 0
}

// Apply selects the configured window of labels and truncates each one that is
// wider than Truncate. The input slice is not modified.
func (c Config) Apply(labels []string) []string {
	if !c.IsActive() {
		return labels
	}

	window := c.window(labels)
	if c.Truncate == 0 {
		return window
	}

	out := make([]string, len(window))
	for i, l := range window {
		out[i] = runewidth.Truncate(l, c.Truncate, Ellipsis)
	}
	return out
}

// window applies tail, offset and limit.
func (c Config) window(labels []string) []string {
	length := len(labels)

	// Handle --tail (show last N labels)
	if c.Tail > 0 {
		start := length - c.Tail
		if start < 0 {
			start = 0
		}
		return labels[start:]
	}

	// Handle --offset and --limit
	start := c.Offset
	if start > length {
		start = length
	}

	var end int
	if c.Limit > 0 {
		end = start + c.Limit
		if end > length {
			end = length
		}
	} else {
		end = length
	}

	return labels[start:end]
}
