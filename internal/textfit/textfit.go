// Package textfit breaks label text into lines that fit a pixel box: greedy
// word wrap, binary search for tokens wider than the box, and an ellipsis
// when the line budget runs out. Measurement is injected so the interactive
// renderer and the export worker can bring their own font handles.
package textfit

import (
	"strings"
	"unicode"
)

// MeasureFunc reports the rendered width of s in pixels.
type MeasureFunc func(s string) float32

const ellipsis = "..."

// Fit wraps text into at most floor(boxH/lineHeight) lines, each at most
// boxW pixels wide under measure. If text remains when the budget is
// exhausted the final line is ellipsized.
func Fit(text string, boxW, boxH, lineHeight float32, measure MeasureFunc) []string {
	text = strings.TrimSpace(text)
	if text == "" || boxW <= 0 {
		return nil
	}

	maxLines := 1
	if lineHeight > 0 {
		if n := int(boxH / lineHeight); n > 1 {
			maxLines = n
		}
	}

	var lines []string
	remaining := []rune(text)
	for len(remaining) > 0 && len(lines) < maxLines {
		best := longestPrefix(remaining, boxW, measure)
		if best == 0 {
			// Not even one rune fits.
			if measure(ellipsis) <= boxW {
				lines = append(lines, ellipsis)
			}
			return lines
		}

		line := remaining[:best]
		if best < len(remaining) {
			// Mid-text break: prefer the last word boundary inside the
			// prefix over a mid-word cut.
			if idx := lastSpace(line); idx > 0 {
				line = line[:idx]
			}
		}

		lines = append(lines, string(line))
		remaining = trimLeading(remaining[len(line):])
	}

	if len(remaining) > 0 && len(lines) > 0 {
		lines[len(lines)-1] = ellipsize(lines[len(lines)-1], boxW, measure)
	}
	return lines
}

// longestPrefix binary-searches the longest rune count of r that measures
// within boxW.
func longestPrefix(r []rune, boxW float32, measure MeasureFunc) int {
	low, high := 0, len(r)
	best := 0
	for low <= high {
		mid := (low + high) / 2
		if measure(string(r[:mid])) <= boxW {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return best
}

// ellipsize trims line until it fits boxW with the ellipsis appended. When
// the ellipsis alone cannot fit, the fitting line is kept as-is rather than
// replaced with something wider.
func ellipsize(line string, boxW float32, measure MeasureFunc) string {
	if measure(ellipsis) > boxW {
		return line
	}
	rs := []rune(line)
	for len(rs) > 0 && measure(string(rs)+ellipsis) > boxW {
		rs = rs[:len(rs)-1]
	}
	return string(rs) + ellipsis
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}

func trimLeading(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}
	return r
}
