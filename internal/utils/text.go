package utils

import (
	"strings"
)

// Truncate shortens s to maxLen runes, ending in "..." when cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// ToTitle converts the first character of a string to uppercase.
func ToTitle(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// OneLine collapses newlines and runs of whitespace to single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
