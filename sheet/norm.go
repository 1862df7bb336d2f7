package sheet

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	unorm "golang.org/x/text/unicode/norm"
)

var (
	spaceRE = regexp.MustCompile(`\s+`)
	folder  = cases.Fold()
)

// Norm folds a header for comparison: trimmed, caseless, accents dropped and
// inner whitespace collapsed, so "Dirección  Inicial A" matches
// "DIRECCION INICIAL A".
func Norm(s string) string {
	t := transform.Chain(unorm.NFD, runes.Remove(runes.In(unicode.Mn)), unorm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	return spaceRE.ReplaceAllString(folder.String(strings.TrimSpace(s)), " ")
}

// ColIdxAny returns the index of the first header equal (after Norm) to any
// key, trying keys in order, or -1.
func ColIdxAny(header []string, keys ...string) int {
	for _, k := range keys {
		k = Norm(k)
		for i, h := range header {
			if Norm(h) == k {
				return i
			}
		}
	}
	return -1
}
