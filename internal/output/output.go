// Package output prints human-facing progress lines for a run.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	stepPrefix    = color.New(color.FgHiBlue).Sprint("→")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	failPrefix    = color.New(color.FgHiRed).Sprint("✗")
)

type UI struct {
	Out io.Writer
}

func New(out io.Writer) *UI {
	if out == nil {
		out = os.Stdout
	}
	return &UI{Out: out}
}

func (u *UI) Step(format string, args ...interface{}) {
	fmt.Fprintf(u.Out, "%s %s\n", stepPrefix, fmt.Sprintf(format, args...))
}

func (u *UI) Success(format string, args ...interface{}) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, args...))
}

func (u *UI) Warning(format string, args ...interface{}) {
	fmt.Fprintf(u.Out, "%s %s\n", warningPrefix, fmt.Sprintf(format, args...))
}

func (u *UI) Fail(format string, args ...interface{}) {
	fmt.Fprintf(u.Out, "%s %s\n", failPrefix, fmt.Sprintf(format, args...))
}

// Truncate shortens s to n runes for one-line previews.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
