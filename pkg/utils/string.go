package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// NormalizeWhitespace replaces runs of whitespace with single spaces and
// trims the ends.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates a string to max display width for log output,
// never cutting a rune mid-sequence.
func TruncateString(str string, maxWidth int) string {
	return runewidth.Truncate(str, maxWidth, "...")
}
