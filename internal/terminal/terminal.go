// Package terminal probes the controlling terminal for its size and for whether a
// writer is attached to it.
package terminal

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	// DefaultRows and DefaultCols are used when no size can be detected.
	DefaultRows = 24
	DefaultCols = 80
)

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// Terminal implements size and interactivity probing against real file descriptors.
// The function fields exist so tests can run without a terminal.
type Terminal struct {
	getSize    func(fd int) (width, height int, err error)
	isTerminal func(fd int) bool
	getenv     func(key string) string
	fds        []uintptr
}

// New returns a Terminal that probes stdout, stderr and stdin in that order.
func New() *Terminal {
	return &Terminal{
		getSize:    term.GetSize,
		isTerminal: term.IsTerminal,
		getenv:     os.Getenv,
		fds:        []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()},
	}
}

// Size returns the best-effort terminal rows and columns. It tries each standard
// stream, then $LINES and $COLUMNS, then falls back to 24x80.
func (t *Terminal) Size() (rows, cols int) {
	for _, fd := range t.fds {
		if w, h, err := t.getSize(int(fd)); err == nil && w > 0 {
			if h <= 0 {
				h = DefaultRows
			}
			return h, w
		}
	}
	rows = envInt(t.getenv, "LINES", DefaultRows)
	cols = envInt(t.getenv, "COLUMNS", DefaultCols)
	return rows, cols
}

// IsInteractive reports whether w is a file descriptor attached to a terminal.
// Writers without a file descriptor (buffers, pipes wrapped in bufio) are not.
func (t *Terminal) IsInteractive(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return t.isTerminal(int(f.Fd()))
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
