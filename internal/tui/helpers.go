package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces to n runes.
func padRight(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// scrollLines drops the first offset lines of s. The offset is clamped so at
// least one line stays visible.
func scrollLines(s string, offset int) (string, int) {
	if offset <= 0 {
		return s, 0
	}
	lines := strings.Split(s, "\n")
	if offset > len(lines)-1 {
		offset = len(lines) - 1
	}
	return strings.Join(lines[offset:], "\n"), offset
}

// centerLine left-pads s so it sits in the middle of width columns.
func centerLine(s string, visible, width int) string {
	pad := (width - visible) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// formatRemaining renders time left on a session, e.g. "2h15m" or "3d4h".
func formatRemaining(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		days := int(d.Hours() / 24)
		return fmt.Sprintf("%dd%dh", days, int(d.Hours())%24)
	}
}
