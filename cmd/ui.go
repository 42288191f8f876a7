package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Output colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Warn   = color.New(color.FgYellow)
	Bad    = color.New(color.FgRed)
)

// banner prints the command heading
func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("glowgraph"), Subtle.Sprint("· "+subtitle))
}

// field prints one aligned "label: value" summary line
func field(w io.Writer, label string, format string, args ...interface{}) {
	fmt.Fprintf(w, "  %-18s %s\n", label+":", fmt.Sprintf(format, args...))
}

// status renders a yes/no flag
func status(ok bool) string {
	if ok {
		return Good.Sprint("yes")
	}
	return Warn.Sprint("no")
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
