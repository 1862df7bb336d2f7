package cdr

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigit   = regexp.MustCompile(`\D`)
	zeroSuffix = regexp.MustCompile(`\.0+$`)
)

// IsPlaceholder reports whether a cell value carries no information: blank,
// a lone dash, or the "nan" a numeric re-read leaves behind.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "-" || strings.EqualFold(s, "nan")
}

// CleanNumber turns a subscriber cell into its digits. Numeric coercion
// artifacts ("4125223014.0", "4.125223014E+09") are undone first.
func CleanNumber(s string) string {
	s = strings.Trim(s, "'\" \t\r\n")
	if IsPlaceholder(s) {
		return ""
	}
	if strings.ContainsAny(s, "eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			s = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	s = zeroSuffix.ReplaceAllString(s, "")
	return nonDigit.ReplaceAllString(s, "")
}

// JoinNonEmpty joins the informative parts with sep, so a missing half never
// leaves a dangling separator behind.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if IsPlaceholder(p) {
			continue
		}
		kept = append(kept, strings.TrimSpace(p))
	}
	return strings.Join(kept, sep)
}

// JoinCoordinates renders "lat, lon", or "" unless both halves are present.
func JoinCoordinates(lat, lon string) string {
	if IsPlaceholder(lat) || IsPlaceholder(lon) {
		return ""
	}
	return strings.TrimSpace(lat) + ", " + strings.TrimSpace(lon)
}
