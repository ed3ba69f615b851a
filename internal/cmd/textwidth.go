package cmd

import (
	"github.com/mattn/go-runewidth"
)

// middleTruncate shortens s to maxWidth display columns with an ellipsis in
// the middle. CJK characters count as two columns.
func middleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "…"

	// Not enough room for head + ellipsis + tail.
	if maxWidth < 3 {
		return truncateLeft(s, maxWidth)
	}

	remaining := maxWidth - 1
	return truncateLeft(s, (remaining+1)/2) + ellipsis + truncateRight(s, remaining/2)
}

// truncateLeft returns the longest prefix of s that fits in maxWidth columns.
func truncateLeft(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

// truncateRight returns the longest suffix of s that fits in maxWidth columns.
func truncateRight(s string, maxWidth int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}

// fitColumn truncates s and pads it with spaces to exactly width columns.
func fitColumn(s string, width int) string {
	return runewidth.FillRight(middleTruncate(s, width), width)
}

// columnWidth is the widest display width in values, clamped to [lo, hi].
func columnWidth(values []string, lo, hi int) int {
	w := lo
	for _, v := range values {
		if sw := runewidth.StringWidth(v); sw > w {
			w = sw
		}
	}
	if w > hi {
		w = hi
	}
	return w
}
