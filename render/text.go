package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrap breaks s into lines no wider than width, splitting on spaces
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	lineW := 0

	for _, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		if w > width {
			word = runewidth.Truncate(word, width, "…")
			w = runewidth.StringWidth(word)
		}
		switch {
		case lineW == 0:
			line.WriteString(word)
			lineW = w
		case lineW+1+w <= width:
			line.WriteByte(' ')
			line.WriteString(word)
			lineW += 1 + w
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineW = w
		}
	}
	if lineW > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// fit truncates s to width cells
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
