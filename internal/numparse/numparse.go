// Package numparse reads numbers out of loosely formatted spreadsheet cells.
//
// Balance sheets mix clean numbers ("90"), annotated values ("6+", "1/2") and free text.
// Strict parsing is used to decide whether a column is numeric; leading parsing is used by
// the damage formula, which takes whatever number a cell starts with.
package numparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	strictRe  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	hexRe     = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
	leadIntRe = regexp.MustCompile(`^[+-]?\d+`)
	leadFltRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Strict reports the value of s when the whole (trimmed) string is a number.
// Blank strings are not numbers.
func Strict(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if hexRe.MatchString(s) {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	if !strictRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// LeadingInt parses the integer a string starts with: "6+" -> 6, "1/2" -> 1, "3.7" -> 3.
func LeadingInt(s string) (int, bool) {
	m := leadIntRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LeadingFloat parses the decimal number a string starts with: "0.5x" -> 0.5.
func LeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		return math.Inf(1), true
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1), true
	}
	m := leadFltRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IntOr is LeadingInt with a fallback. Values out of int range count as missing.
func IntOr(s string, def int) int {
	if n, ok := LeadingInt(s); ok {
		return n
	}
	return def
}

// FloatOr is LeadingFloat with a fallback for missing, zero and non-finite values.
func FloatOr(s string, def float64) float64 {
	if f, ok := LeadingFloat(s); ok && f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return def
}
