package tui

import (
	"fmt"
	"strings"
)

// truncateEnd shortens s to at most limit runes, appending an ellipsis
// if truncation occurs.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle keeps both ends of s around a single ellipsis. Used for
// URLs where the host and the last path segment both matter.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	return string(r[:left]) + "…" + string(r[n-right:])
}

// singleLine collapses newlines and runs of whitespace.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatCount renders counts the way GitHub does: 950, 1.2k, 12k, 3.4m.
func formatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1000), ".0") + "k"
	case n < 1_000_000:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/1_000_000), ".0") + "m"
	}
}
