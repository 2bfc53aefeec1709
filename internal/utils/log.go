package utils

import "strings"

// TruncateForLog flattens s to a single line and cuts it to limit runes.
// Prompts and replies are multi-line; log previews are not.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "…"
}
