package utils

import (
	"strconv"
	"strings"
)

// FormatCount renders a count with thousand separators for log lines and
// summaries. Report file contents never use it; their layout is fixed.
//
// Examples:
//   - 0       -> "0"
//   - 1500    -> "1,500"
//   - 1234567 -> "1,234,567"
func FormatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)

	var formatted strings.Builder
	length := len(s)
	for i, r := range s {
		if i > 0 && (length-i)%3 == 0 {
			formatted.WriteString(",")
		}
		formatted.WriteRune(r)
	}

	return formatted.String()
}
