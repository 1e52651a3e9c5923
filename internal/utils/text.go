package utils

import "strings"

// Truncate shortens s to limit runes, appending an ellipsis when cut.
// Surrounding whitespace is trimmed first.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// TruncateForLog is Truncate for log previews.
func TruncateForLog(s string, limit int) string {
	return Truncate(s, limit)
}
