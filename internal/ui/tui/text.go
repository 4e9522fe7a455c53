package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// truncateText cuts text to at most width terminal cells, marking the cut
// with an ellipsis.
func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= len(ellipsis) {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// wrapText word-wraps text into at most maxLines lines of width cells. When
// the text does not fit, the last line ends with an ellipsis.
func wrapText(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return []string{""}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	truncated := false

	for i, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
			if len(lines) == maxLines {
				truncated = i < len(words)
				break
			}
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if !truncated && lineWidth > 0 {
		lines = append(lines, line.String())
	}

	for i, l := range lines {
		if runewidth.StringWidth(l) > width {
			lines[i] = truncateText(l, width)
		}
	}
	if truncated {
		last := lines[len(lines)-1]
		if runewidth.StringWidth(last)+len(ellipsis) > width {
			last = runewidth.Truncate(last, max(width-len(ellipsis), 0), "")
		}
		lines[len(lines)-1] = last + ellipsis
	}
	return lines
}

// padLines appends empty lines until there are n of them.
func padLines(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
