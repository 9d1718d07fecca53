package utils

import (
	"strings"
	"time"
)

// ParseDateSafe parses s with layout and returns epoch milliseconds.
// Blank or malformed input yields 0 instead of an error.
func ParseDateSafe(layout, s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
