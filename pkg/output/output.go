// Package output prints step results and installer guidance.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jwalton/go-supportscolor"

	"github.com/franzcode/bootstrap/pkg/check"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	dim    = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		color.NoColor = true
	}
}

// Printer writes human-readable output to w.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	if w == nil {
		w = io.Discard
	}
	return &Printer{w: w}
}

// Result prints a step result with its coloured status tag and details
// aligned under the name.
func (p *Printer) Result(r check.Result) {
	tag, c := "[FAIL]", red
	switch r.Status {
	case check.StatusOK:
		tag, c = "[OK]", green
	case check.StatusWarn:
		tag, c = "[WARN]", yellow
	}
	_, _ = fmt.Fprintf(p.w, "%s %s\n", c.Sprint(tag), r.Name)
	indent := strings.Repeat(" ", len(tag)+1)
	for _, d := range r.Details {
		_, _ = fmt.Fprintf(p.w, "%s%s\n", indent, formatLabel(d))
	}
}

// Headline prints an emphasized line.
func (p *Printer) Headline(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, bold.Sprintf(format, args...))
}

// Line prints a plain line.
func (p *Printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Command prints an indented command the user is expected to run.
func (p *Printer) Command(cmd string) {
	_, _ = fmt.Fprintf(p.w, "    %s\n", green.Sprint(cmd))
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(s string) string {
	label, rest, ok := strings.Cut(s, ": ")
	if !ok || strings.ContainsAny(label, " /") {
		return s
	}
	return dim.Sprint(label+":") + " " + rest
}
