// Package cli provides console output helpers for the pnpclaim CLI.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Diagnostic line tags. Status lines carry no tag.
const (
	ErrorTag = "##ERROR"
	SkipTag  = "##SKIPPING"
)

// SeparatorWidth is the width of the banner separator line.
const SeparatorWidth = 26

// Console writes line-oriented output. Tags are coloured only when out is
// a terminal and NO_COLOR is unset, so piped output stays literal.
type Console struct {
	out  io.Writer
	red  *color.Color
	yell *color.Color
}

// NewConsole creates a console writing to out.
func NewConsole(out io.Writer) *Console {
	c := &Console{
		out:  out,
		red:  color.New(color.FgRed, color.Bold),
		yell: color.New(color.FgYellow),
	}
	if isTerminal(out) && !color.NoColor {
		c.red.EnableColor()
		c.yell.EnableColor()
	} else {
		c.red.DisableColor()
		c.yell.DisableColor()
	}
	return c
}

// Printf writes a formatted line; a trailing newline is added.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Separator writes the banner separator line.
func (c *Console) Separator() {
	fmt.Fprintln(c.out, strings.Repeat("#", SeparatorWidth))
}

// Error writes a diagnostic line for a row that could not be resolved.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", c.red.Sprint(ErrorTag), fmt.Sprintf(format, args...))
}

// Skip writes a diagnostic line for a row the controller refused to import.
func (c *Console) Skip(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", c.yell.Sprint(SkipTag), fmt.Sprintf(format, args...))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
