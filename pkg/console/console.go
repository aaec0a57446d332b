// Package console prints human-readable progress lines for operators.
// The output is not a stable machine-readable contract.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors for status lines.
var (
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Console writes styled status lines. Progress goes to the out writer,
// warnings and errors to the err writer. Colors are only emitted when the
// writer is a terminal.
type Console struct {
	out io.Writer
	err io.Writer

	info     lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	warn     lipgloss.Style
	errStyle lipgloss.Style
	label    lipgloss.Style
}

// New creates a console writing to out and errOut.
func New(out, errOut io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)

	return &Console{
		out:      out,
		err:      errOut,
		info:     outR.NewStyle().Foreground(colorCyan),
		success:  outR.NewStyle().Foreground(colorGreen),
		failure:  outR.NewStyle().Bold(true).Foreground(colorRed),
		label:    outR.NewStyle().Foreground(colorDim),
		warn:     errR.NewStyle().Bold(true).Foreground(colorYellow),
		errStyle: errR.NewStyle().Bold(true).Foreground(colorRed),
	}
}

// Stdio returns a console bound to the process standard streams.
func Stdio() *Console {
	return New(os.Stdout, os.Stderr)
}

// Discard returns a console that drops everything.
func Discard() *Console {
	return New(io.Discard, io.Discard)
}

// Out returns the progress writer.
func (c *Console) Out() io.Writer { return c.out }

// Err returns the diagnostics writer.
func (c *Console) Err() io.Writer { return c.err }

// Infof prints a neutral progress line.
func (c *Console) Infof(format string, args ...any) {
	c.println(c.out, c.info, format, args...)
}

// Successf prints a success line.
func (c *Console) Successf(format string, args ...any) {
	c.println(c.out, c.success, format, args...)
}

// Failuref prints an account failure. Failures are expected outcomes, so
// they go to the progress writer.
func (c *Console) Failuref(format string, args ...any) {
	c.println(c.out, c.failure, format, args...)
}

// Warnf prints a warning to the diagnostics writer.
func (c *Console) Warnf(format string, args ...any) {
	c.println(c.err, c.warn, "Warning: "+format, args...)
}

// Errorf prints an error to the diagnostics writer.
func (c *Console) Errorf(format string, args ...any) {
	c.println(c.err, c.errStyle, "Error: "+format, args...)
}

// Field prints a dimmed label followed by a value.
func (c *Console) Field(label string, value any) {
	fmt.Fprintf(c.out, "%s %v\n", c.label.Render(label+":"), value)
}

func (c *Console) println(w io.Writer, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}
