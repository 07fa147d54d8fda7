// Package logger provides verbose logging for razor.
// When verbose mode is enabled via the --verbose flag, debug messages are
// printed to stderr, tagged with the run ID, to show what happened to each
// file and record.
package logger

import (
	"fmt"
	"io"
	"sync"
)

// Logger writes leveled lines. A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	prefix  string
}

// New returns a logger writing to w. Debug and Info lines are only written
// when verbose is set; prefix (usually a run ID) leads every such line.
func New(w io.Writer, verbose bool, prefix string) *Logger {
	return &Logger{out: w, verbose: verbose, prefix: prefix}
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	return l != nil && l.verbose
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.printf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) {
	l.printf("[INFO] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if !l.IsVerbose() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "\n=== %s ===\n", name)
}

func (l *Logger) printf(level, format string, args ...any) {
	if !l.IsVerbose() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefix != "" {
		level += l.prefix + " "
	}
	fmt.Fprintf(l.out, level+format+"\n", args...)
}
