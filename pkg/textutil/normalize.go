package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)

	foldTransformer = transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
)

// FoldDiacritics strips combining marks so "zahăr" and "zahar"
// compare equal. Input that fails to transform is returned unchanged.
func FoldDiacritics(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// Normalize lowercases, folds diacritics, removes punctuation and
// collapses whitespace. This is the canonical form used for directory
// lookups, cache keys and similarity scoring.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = FoldDiacritics(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Words splits a normalized string into its word tokens.
func Words(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(strings.ReplaceAll(s, "-", " "))
}

// WordCount returns the number of word tokens in a name.
func WordCount(s string) int {
	return len(Words(s))
}

// ContainsWord reports whether the normalized form of s contains the
// given word as a token rather than a substring.
func ContainsWord(s, word string) bool {
	for _, w := range Words(Normalize(s)) {
		if w == word {
			return true
		}
	}
	return false
}
