// Package report turns critiques into human-readable notices and tallies.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/panbanda/docaudit/pkg/models"
)

// Reporter writes concern notices to an output stream.
type Reporter struct {
	w       io.Writer
	colored bool
	green   *color.Color
	red     *color.Color
	yellow  *color.Color
}

// New creates a reporter writing to w. Colors are only emitted when colored is true.
func New(w io.Writer, colored bool) *Reporter {
	r := &Reporter{
		w:       w,
		colored: colored,
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{r.green, r.red, r.yellow} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Report emits one notice per concern in c and returns the error count,
// warning count and proposed solution. A critique without concerns yields
// a single notice and no solution.
func (r *Reporter) Report(c models.Critique) (errors, warnings int, solution string) {
	if !c.HasConcerns() {
		r.green.Fprintf(r.w, "No concerns found with the docstring for the function: %s\n", c.Function)
		return 0, 0, ""
	}

	if c.Error != "" {
		errors = 1
		r.red.Fprintf(r.w, "An error was found in the function: %s\n", c.Function)
		r.red.Fprintf(r.w, "%s\n", c.Error)
	}
	if c.Warning != "" {
		warnings = 1
		r.yellow.Fprintf(r.w, "A warning was found in the function: %s\n", c.Function)
		r.yellow.Fprintf(r.w, "%s\n", c.Warning)
	}
	if c.Solution != "" {
		fmt.Fprintf(r.w, "A proposed solution to these concerns is:\n\n%s\n\n", c.Solution)
	}
	return errors, warnings, c.Solution
}

// Tally reports c and returns the counts as a Tally.
func (r *Reporter) Tally(c models.Critique) (models.Tally, string) {
	e, w, s := r.Report(c)
	return models.Tally{Errors: e, Warnings: w}, s
}

// Colored reports whether the reporter emits ANSI colors.
func (r *Reporter) Colored() bool { return r.colored }

// Print writes s verbatim.
func (r *Reporter) Print(s string) {
	fmt.Fprint(r.w, s)
}

// Notice writes a yellow informational line.
func (r *Reporter) Notice(format string, args ...any) {
	r.yellow.Fprintf(r.w, format+"\n", args...)
}

// Summary writes the final run line.
func (r *Reporter) Summary(t models.Tally, errorOnWarnings bool) {
	line := fmt.Sprintf("Found %d %s and %d %s.", t.Errors, plural(t.Errors, "error"), t.Warnings, plural(t.Warnings, "warning"))
	switch {
	case t.Failed(errorOnWarnings):
		r.red.Fprintln(r.w, line)
	case t.Warnings > 0:
		r.yellow.Fprintln(r.w, line)
	default:
		r.green.Fprintln(r.w, line)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
