package patch

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a line-oriented diff between two docstrings. Removed lines
// are prefixed with "-", added lines with "+" and unchanged ones with a space.
func Diff(oldText, newText string, colored bool) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	if colored {
		red.EnableColor()
		green.EnableColor()
	}

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				writeLine(&sb, red, "-"+line, colored)
			case diffmatchpatch.DiffInsert:
				writeLine(&sb, green, "+"+line, colored)
			default:
				sb.WriteString(" " + line + "\n")
			}
		}
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, c *color.Color, line string, colored bool) {
	if colored {
		sb.WriteString(c.Sprint(line))
		sb.WriteString("\n")
		return
	}
	sb.WriteString(line + "\n")
}

// splitLines splits text into lines without the trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
