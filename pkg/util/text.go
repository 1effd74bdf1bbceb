package util

import (
	"math"
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// CountWords counts whitespace-separated words after stripping markup tags
func CountWords(content string) int {
	if strings.TrimSpace(content) == "" {
		return 0
	}
	plain := htmlTagPattern.ReplaceAllString(content, " ")
	plain = strings.ReplaceAll(plain, "&nbsp;", " ")
	return len(strings.Fields(plain))
}

// RoundTo rounds half away from zero to the given number of decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
