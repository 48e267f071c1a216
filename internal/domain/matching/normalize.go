package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameSuffixes are generational and title suffixes dropped before comparison
var nameSuffixes = []string{" jr.", " jr", " sr.", " sr", " iii", " ii", " iv", " phd", " md"}

// NormalizeName normalizes a person's name for matching:
// lowercase, diacritics folded, generational suffixes dropped,
// punctuation removed, whitespace collapsed.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = foldDiacritics(s)

	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
		}
	}

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '\'':
			if !prevSpace && result.Len() > 0 {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// NormalizeEmail normalizes an email address (lowercase, trim)
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// foldDiacritics decomposes accented characters and strips the combining
// marks, so "José" compares equal to "Jose".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
