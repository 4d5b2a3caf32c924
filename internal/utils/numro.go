package utils

import (
	"math"
	"strconv"
	"strings"
)

var spaceStripper = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\u2009", "", "\t", "")

// ParseNumber parses the leading number of s, accepting both Romanian ("1.234,50")
// and English ("1,234.50") grouping and an exponent ("1e3"). Trailing text is
// ignored ("12 buc" → 12).
// NaN/Inf and strings without a leading number report false.
func ParseNumber(s string) (float64, bool) {
	s = spaceStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	// leading run of sign, digits and separators
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	num := strings.TrimRight(s[:end], ".,")
	if num == "" || num == "-" || num == "+" {
		return 0, false
	}

	num = normalizeSeparators(num) + exponent(s[end:])
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// exponent returns the "e[+-]digits" prefix of s, or "" ("12elem" has none).
func exponent(s string) string {
	if s == "" || (s[0] != 'e' && s[0] != 'E') {
		return ""
	}
	j := 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		k++
	}
	if k == j {
		return ""
	}
	return s[:k]
}

// normalizeSeparators leaves at most one '.', the decimal point.
func normalizeSeparators(s string) string {
	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// 1.234,5
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		// 1,234.5
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case dot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
