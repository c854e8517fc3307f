package tables

import (
	"math"
	"testing"
)

func TestParseDurationText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  float64
	}{
		{"4.92 µs", 0.00000492},
		{"4.92us", 0.00000492},
		{"5 ms", 0.005},
		{"3 ns", 0.000000003},
		{"1.5 s", 1.5},
		{"4917", 0.000004917}, // bare numeral = nanoseconds
		{"", 0},
		{"garbage", 0},
		{"12 parsecs", 0}, // unknown-unit text falls back to the numeric rules
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDurationText(tt.input)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ParseDurationText(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_RoundTrip(t *testing.T) {
	t.Parallel()
	// nanoseconds in, seconds out, scaling back reconstructs the original.
	const nanos = "1050000000"
	got := parseTimestamp(nanos)
	if math.Abs(got*1e9-1050000000) > 1 {
		t.Errorf("parseTimestamp(%q)*1e9 = %v, want 1050000000", nanos, got*1e9)
	}
}

func TestParseInt64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  int64
	}{
		{"120041", 120041},
		{"0x1d4e9", 0x1d4e9},
		{"", 0},
		{"junk", 0},
	}
	for _, tt := range tests {
		if got := parseInt64(tt.input); got != tt.want {
			t.Errorf("parseInt64(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
