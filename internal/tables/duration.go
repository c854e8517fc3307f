package tables

import (
	"strconv"
	"strings"
)

// ParseDurationText converts an exported duration to seconds. Durations arrive
// either as a raw-nanosecond numeral or as a pre-formatted string with a unit
// suffix. An unrecognized unit falls back to raw nanoseconds; unparseable text
// yields 0 rather than an error.
func ParseDurationText(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	suffixes := []struct {
		unit  string
		scale float64
	}{
		{"µs", 1e-6},
		{"us", 1e-6},
		{"ms", 1e-3},
		{"ns", 1e-9},
		{"s", 1},
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf.unit) {
			num := strings.TrimSpace(strings.TrimSuffix(s, suf.unit))
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0
			}
			return v * suf.scale
		}
	}

	// Bare numeral: raw nanoseconds.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 1e9
}

// parseTimestamp converts an exported raw-nanosecond timestamp to seconds.
func parseTimestamp(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v / 1e9
}

// parseInt64 parses a decimal or 0x-prefixed integer, defaulting to 0.
func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return 0
		}
		return v
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
