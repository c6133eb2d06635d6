// Package cliutil provides output helpers for the datafile CLI.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Writef writes formatted output to the writer.
// If the write fails, it reports the failure on stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	kindColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// Success writes a green check line.
func Success(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", okColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Failure writes a red cross line.
func Failure(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", failColor.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Issue writes one indented "kind: desc" line, with an optional location.
func Issue(w io.Writer, kind, desc, path string) {
	if path != "" {
		Writef(w, "  %s: %s %s\n", kindColor.Sprint(kind), desc, dimColor.Sprintf("(at %s)", path))
		return
	}
	Writef(w, "  %s: %s\n", kindColor.Sprint(kind), desc)
}

// DisableColor turns off colored output, as --no-color does.
func DisableColor() {
	color.NoColor = true
}
