// Package console provides the reporting interface the check-in pipeline
// writes user-facing progress to. It is passed explicitly into every
// component that reports; there is no process-wide default.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Console receives user-facing progress and error lines.
type Console interface {
	// Printout writes one informational line, arguments joined by spaces.
	Printout(a ...interface{})

	// Printerr writes one error line, arguments joined by spaces.
	Printerr(a ...interface{})
}

// Terminal is a Console writing to a pair of streams, errors in red.
type Terminal struct {
	out      io.Writer
	err      io.Writer
	errStyle *color.Color
}

// NewTerminal returns a Console on stdout/stderr.
func NewTerminal() *Terminal {
	return NewTerminalWriters(os.Stdout, os.Stderr)
}

// NewTerminalWriters returns a Console on the given streams.
func NewTerminalWriters(out, err io.Writer) *Terminal {
	return &Terminal{
		out:      out,
		err:      err,
		errStyle: color.New(color.FgRed),
	}
}

func (t *Terminal) Printout(a ...interface{}) {
	fmt.Fprintln(t.out, a...)
}

func (t *Terminal) Printerr(a ...interface{}) {
	_, _ = t.errStyle.Fprintln(t.err, a...)
}

// Recorder is a Console capturing lines for assertions in tests.
type Recorder struct {
	Out []string
	Err []string
}

func (r *Recorder) Printout(a ...interface{}) {
	r.Out = append(r.Out, sprintLine(a...))
}

func (r *Recorder) Printerr(a ...interface{}) {
	r.Err = append(r.Err, sprintLine(a...))
}

func sprintLine(a ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(a...), "\n")
}
