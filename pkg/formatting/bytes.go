// Package formatting converts byte counts to and from human-readable sizes.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// units are base-1024 multiples, indexed by exponent.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with the largest unit that keeps the value at or
// above 1, using precision decimal places.
func FormatBytes(n int64, precision int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value, exp := float64(n), 0
	for value >= 1024 && exp < len(units)-1 {
		value /= 1024
		exp++
	}
	return strconv.FormatFloat(value, 'f', max(precision, 0), 64) + " " + units[exp]
}

// ParseBytes parses sizes such as "10MB", "1.5 gb" or "512". A bare number
// is a byte count.
func ParseBytes(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	exp := 0
	if m[2] != "" {
		exp = slices.Index(units, strings.ToUpper(m[2]))
		if exp < 0 {
			return 0, fmt.Errorf("unknown byte size unit %q", m[2])
		}
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}
