package correlate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blackwell-systems/autoscout/internal/textnorm"
)

// KeywordSet is a deduplicated set of keywords.
type KeywordSet map[string]struct{}

// ExtractKeywords folds text, replaces punctuation with spaces, splits on
// whitespace, and keeps the distinct tokens longer than two characters that
// are not stop words. stopWords must contain folded words.
func ExtractKeywords(text string, stopWords map[string]bool) KeywordSet {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, textnorm.Fold(text))

	set := make(KeywordSet)
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(word) <= 2 || stopWords[word] {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b KeywordSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for w := range small {
		if _, ok := large[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// StopWordSet builds the lookup set used by ExtractKeywords.
func StopWordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[textnorm.Fold(w)] = true
	}
	return set
}
