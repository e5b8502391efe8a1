package model

import "unicode/utf8"

// Byte capacities of the fixed-size snapshot records. Longer input is
// clipped, not rejected.
const (
	MaxCategoryName = 63
	MaxNote         = 255
)

// Clip truncates s to at most max bytes without splitting a rune.
func Clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
